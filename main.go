package main

import "github.com/Ere11i/KV-Store-CLI-Utility/cmd"

func main() {
	cmd.Execute()
}
