package main

import (
	api "Postline"
)

func main() {
	api.Run()
}
