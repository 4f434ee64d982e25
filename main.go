package main

import "github.com/nidhiknayak/MeetSpace/cmd"

func main() {
	cmd.Execute()
}
