package main

import "github.com/fakhrymubarak/weather-forecast/cmd"

func main() {
	cmd.Execute()
}
