// Command poolcache drives the buddy-arena cache: an interactive line demo,
// a synthetic benchmark and an allocator tree printer.
package main

func main() {
	execute()
}
