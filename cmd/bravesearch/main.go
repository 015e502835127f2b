package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "--help", "-h", "help":
			showUsage()
			return
		case "encrypt":
			if err := runEncrypt(os.Args[2:]); err != nil {
				fmt.Fprintf(os.Stderr, "encrypt: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println(`bravesearch - Brave Web Search client

USAGE:
    bravesearch [COMMAND] [FLAGS] QUERY...

COMMANDS:
    encrypt     Encrypt an API key for storage in config.yaml
                (reads the passphrase from BRAVESEARCH_CONFIG_KEY)

    (no command) - Run a search with the remaining args as the query

FLAGS:
    -h, --help         Show this help message
    -config PATH       Config file path (default: ./config.yaml)
    -count N           Number of results to request (1-50)
    -offset N          Pagination offset in result pages
    -lang CODE         Search language, e.g. en, de ("auto" lets the
                       service decide)
    -country CODE      Country code, e.g. US, DE
    -freshness PERIOD  Restrict result age: day, week or month
    -safesearch LEVEL  Content filtering: off, moderate or strict
    -spellcheck BOOL   Force spellcheck on (true) or off (false)
    -json              Print the raw JSON response instead of text

CONFIGURATION:
    Config file: ./config.yaml
    Environment: BRAVESEARCH_* variables override config;
                 BRAVE_API_KEY supplies the subscription token.

EXAMPLES:
    bravesearch golang generics tutorial
    bravesearch -count 5 -freshness week kubernetes release notes
    bravesearch -json -lang de "kölner dom"
    bravesearch encrypt BSA...token     # prints an enc: value for config.yaml`)
}
