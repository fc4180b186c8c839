package languages

// FallbackStarterCode is used for languages without a template.
const FallbackStarterCode = "// Write your solution here"

var starterCode = map[string]string{
	JavaScript: `function solution(input) {
  // Parse input if needed
  // input = input.trim().split(/\s+/).map(Number);
  
  // Write your code here
  
  return;
}

// Example usage
const result = solution(input);
console.log(result);`,

	Python: `def solution(input):
    # Parse input if needed
    # input = list(map(int, input.strip().split()))
    
    # Write your code here
    
    return

# Example usage
result = solution(input)
print(result)`,

	Java: `import java.util.*;

class Solution {
    public static void main(String[] args) {
        Scanner scanner = new Scanner(System.in);
        String input = scanner.nextLine();
        
        // Parse input if needed
        // String[] parts = input.trim().split("\\s+");
        
        // Write your code here
        
        System.out.println(result);
    }
}`,

	Cpp: `#include <iostream>
#include <string>
#include <vector>
#include <sstream>
using namespace std;

int main() {
    string input;
    getline(cin, input);
    
    // Parse input if needed
    // vector<int> numbers;
    // stringstream ss(input);
    // int n;
    // while (ss >> n) {
    //     numbers.push_back(n);
    // }
    
    // Write your code here
    
    cout << result << endl;
    return 0;
}`,

	CSharp: `using System;
using System.Linq;

class Solution {
    static void Main() {
        string input = Console.ReadLine();
        
        // Parse input if needed
        // int[] numbers = input.Split().Select(int.Parse).ToArray();
        
        // Write your code here
        
        Console.WriteLine(result);
    }
}`,

	Ruby: `# Read input
input = gets.chomp

# Parse input if needed
# numbers = input.split.map(&:to_i)

# Write your code here

# Output result
puts result`,

	Go: `package main

import (
    "fmt"
    "strings"
    "strconv"
)

func main() {
    var input string
    fmt.Scanln(&input)
    
    // Parse input if needed
    // parts := strings.Fields(input)
    // numbers := make([]int, len(parts))
    // for i, p := range parts {
    //     numbers[i], _ = strconv.Atoi(p)
    // }
    
    // Write your code here
    
    fmt.Println(result)
}`,

	Kotlin: `import java.util.*

fun main(args: Array<String>) {
    val input = readLine()!!
    
    // Parse input if needed
    // val numbers = input.trim().split("\s+".toRegex()).map { it.toInt() }
    
    // Write your code here
    
    println(result)
}`,

	Rust: `use std::io::{self, BufRead};

fn main() {
    let stdin = io::stdin();
    let input = stdin.lock().lines().next().unwrap().unwrap();
    
    // Parse input if needed
    // let numbers: Vec<i32> = input.split_whitespace()
    //     .map(|s| s.parse().unwrap())
    //     .collect();
    
    // Write your code here
    
    println!("{}", result);
}`,

	PHP: `<?php
$input = trim(fgets(STDIN));

// Parse input if needed
// $numbers = array_map('intval', explode(' ', $input));

// Write your code here

echo $result . "\n";
?>`,
}

// StarterCode returns the template source for a language.
func StarterCode(language string) string {
	if code, ok := starterCode[language]; ok {
		return code
	}
	return FallbackStarterCode
}
