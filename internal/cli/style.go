package cli

import "github.com/fatih/color"

var (
	passStyle = color.New(color.FgGreen)
	failStyle = color.New(color.FgRed, color.Bold)
)
