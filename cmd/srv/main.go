package main

import "os"

func main() {
	server := &srv{}
	server.loadApp()

	if err := server.app.Run(os.Args); err != nil {
		panic(err)
	}
}
