package cache

import "fmt"

const keyPrefix = "coding-assessment"

func QuestionKey(id uint) string {
	return fmt.Sprintf("%s:question:%d", keyPrefix, id)
}

// QuestionPattern matches every cached question.
func QuestionPattern() string {
	return keyPrefix + ":question:*"
}

// SubmissionKey guards the single submission of a session.
func SubmissionKey(sessionID string) string {
	return fmt.Sprintf("%s:submission:%s", keyPrefix, sessionID)
}
