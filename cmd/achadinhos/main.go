package main

// go run ./cmd/achadinhos collect
// go run ./cmd/achadinhos site
func main() {
	Execute()
}
