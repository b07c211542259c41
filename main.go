package main

import "github.com/frahmantamala/university-directory/cmd"

func main() {
	cmd.Execute()
}
