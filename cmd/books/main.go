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

func main() {
	app, err := bookstore.NewApp(bookstore.BooksService, bookstore.BuildInfo{
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
