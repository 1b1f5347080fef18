package main

import (
	"log"

	bookstore "github.com/jeamon/demo-bookstore"
)

var (
	GitCommit string
	GitTag    string
	BuildTime string
)

// main runs the books and customers endpoints on a single instance.
func main() {
	app, err := bookstore.NewApp(bookstore.BookstoreService, bookstore.BuildInfo{
		GitCommit: GitCommit,
		GitTag:    GitTag,
		BuildTime: BuildTime,
	})
	if err != nil {
		log.Fatal("application failed to initialized: ", err)
	}
	err = app.Run()
	if err != nil {
		log.Fatal("application exited. check logs for more details.", err)
	}
}
