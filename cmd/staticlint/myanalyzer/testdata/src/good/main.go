package main

import (
	"errors"
	"os"
)

func run() error {
	return errors.New("failed")
}

func helper() {
	os.Exit(2)
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			os.Exit(3)
		}
	}()
	if err := run(); err != nil {
		panic(err)
	}
	helper()
}
