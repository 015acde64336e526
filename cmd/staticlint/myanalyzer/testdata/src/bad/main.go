package main

import (
	"fmt"
	sys "os"
)

func main() {
	fmt.Println("start")
	sys.Exit(1) // want "прямой вызов os.Exit\\(\\) запрещен в функции main"
}
