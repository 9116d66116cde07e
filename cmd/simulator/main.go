package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Global flags
	apiURL := "http://localhost:8080"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "populate":
		populateCmd(apiURL, args)
	case "feed":
		feedCmd(apiURL, args)
	case "toggle":
		toggleCmd(apiURL, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Feed Simulator - Development tool for exercising the API

USAGE:
  simulator <command> [options]

COMMANDS:
  populate  Create fake users, posts, follows, likes and comments
  feed      Page through a feed with the client page cache
  toggle    Hammer the optimistic like toggle on a fresh post
  help      Show this help message

ENVIRONMENT:
  API_URL   Backend API URL (default: http://localhost:8080)

EXAMPLES:
  # Seed 5 users with 3 posts each, cross-following and liking
  simulator populate --users=5 --posts=3

  # Walk the for-you feed two pages deep
  simulator feed --pages=2

  # Toggle a like 7 times and report the settled state
  simulator toggle --count=7`)
}
