// Package languages holds the fixed language catalog used to translate an
// editor selection into execution parameters, and the starter-code catalog.
package languages

// Language maps a display language to the execution service id and the
// editor's syntax identifier.
type Language struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

const (
	JavaScript = "javascript"
	Python     = "python"
	C          = "c"
	Cpp        = "cpp"
	CSharp     = "csharp"
	Java       = "java"
	Kotlin     = "kotlin"
	TypeScript = "typescript"
	Ruby       = "ruby"
	Rust       = "rust"
	Go         = "go"
	PHP        = "php"
	Swift      = "swift"
)

var catalog = []Language{
	{ID: 63, Name: "JavaScript (Node.js 12.14.0)", Value: JavaScript},
	{ID: 71, Name: "Python (3.8.1)", Value: Python},
	{ID: 50, Name: "C (GCC 9.2.0)", Value: C},
	{ID: 54, Name: "C++ (GCC 9.2.0)", Value: Cpp},
	{ID: 51, Name: "C# (Mono 6.6.0.161)", Value: CSharp},
	{ID: 62, Name: "Java (OpenJDK 13.0.1)", Value: Java},
	{ID: 78, Name: "Kotlin (1.3.70)", Value: Kotlin},
	{ID: 74, Name: "TypeScript (3.7.4)", Value: TypeScript},
	{ID: 72, Name: "Ruby (2.7.0)", Value: Ruby},
	{ID: 73, Name: "Rust (1.40.0)", Value: Rust},
	{ID: 60, Name: "Go (1.13.5)", Value: Go},
	{ID: 68, Name: "PHP (7.4.1)", Value: PHP},
	{ID: 79, Name: "Swift (5.2.3)", Value: Swift},
}

// All returns a copy of the catalog in display order.
func All() []Language {
	out := make([]Language, len(catalog))
	copy(out, catalog)
	return out
}

// ByValue looks a language up by its editor identifier.
func ByValue(value string) (Language, bool) {
	for _, lang := range catalog {
		if lang.Value == value {
			return lang, true
		}
	}
	return Language{}, false
}

// ByID looks a language up by its execution service id.
func ByID(id int) (Language, bool) {
	for _, lang := range catalog {
		if lang.ID == id {
			return lang, true
		}
	}
	return Language{}, false
}

// Default is the language a new session starts with.
func Default() Language {
	return catalog[0]
}

// IsSupported reports whether value is a catalog language.
func IsSupported(value string) bool {
	_, ok := ByValue(value)
	return ok
}
