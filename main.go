package main

import "github.com/gooberdetector/facedetect/cmd"

func main() {
	cmd.Execute()
}
