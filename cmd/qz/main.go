package main

import "quizline/cmd/qz/root"

func main() {
	root.Execute()
}
