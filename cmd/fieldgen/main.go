package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"scene-editor/internal/fieldgen"
)

func main() {
	if err := execute(os.Stderr, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func execute(stderr io.Writer, args []string) error {
	fs := flag.NewFlagSet("fieldgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dir := fs.String("dir", ".", "package directory holding the types")
	typeList := fs.String("type", "", "comma separated struct types to generate accessors for")
	output := fs.String("output", "fields_gen.go", "generated file name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *typeList == "" {
		return fmt.Errorf("fieldgen: missing required -type flag")
	}
	return fieldgen.Run(fieldgen.Options{
		Dir:        *dir,
		Types:      fieldgen.SplitTypes(*typeList),
		OutputPath: *output,
	})
}
