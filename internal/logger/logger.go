package logger

import (
	"fmt"
	"time"
)

const (
	reset  = "\033[0m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
	gray   = "\033[90m"
	bold   = "\033[1m"
)

var debugEnabled bool

// SetDebug toggles Debug output for the whole process.
func SetDebug(on bool) {
	debugEnabled = on
}

func stamp() string {
	return time.Now().Format("15:04:05")
}

func line(color, tag, msg string) {
	fmt.Printf("%s%s%s %s[%s]%s %s\n", gray, stamp(), reset, color, tag, reset, msg)
}

// Info logs a neutral message with a tag.
func Info(tag, msg string) {
	line(cyan, tag, msg)
}

// Success logs a positive outcome.
func Success(tag, msg string) {
	line(green, tag, msg)
}

// Warn logs a recoverable problem.
func Warn(tag, msg string) {
	line(yellow, tag, msg)
}

// Error logs a failure.
func Error(tag, msg string) {
	line(red, tag, msg)
}

// Debug logs only when debug mode is enabled (see SetDebug).
func Debug(tag, msg string) {
	if debugEnabled {
		line(gray, tag, msg)
	}
}

// Banner prints the startup header.
func Banner(version string) {
	if version == "" {
		version = "dev"
	}
	fmt.Printf("%s%swt-market-parse%s %s%s%s\n", bold, cyan, reset, gray, version, reset)
}

// Section prints a visual separator with a title.
func Section(title string) {
	fmt.Printf("\n%s── %s ──%s\n", gray, title, reset)
}

// Stats prints a key/value pair aligned for scan summaries.
func Stats(key string, value interface{}) {
	fmt.Printf("  %s%-22s%s %v\n", gray, key, reset, value)
}
