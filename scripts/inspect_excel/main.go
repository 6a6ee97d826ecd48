package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// Prints the first rows of every sheet in a workbook, for checking exports
// and import files by hand.
//
//	inspect_excel <file.xlsx> [rows]
func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: inspect_excel <file.xlsx> [rows]")
		os.Exit(2)
	}

	limit := 5
	if len(os.Args) > 2 {
		n, err := strconv.Atoi(os.Args[2])
		if err != nil || n <= 0 {
			log.Fatalf("invalid row count %q", os.Args[2])
		}
		limit = n
	}

	f, err := excelize.OpenFile(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		log.Fatal("no sheets found")
	}

	for _, sheetName := range sheets {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			log.Fatal(err)
		}

		fmt.Printf("Sheet %q (%d rows)\n", sheetName, len(rows))
		for i, row := range rows {
			if i >= limit {
				break
			}
			fmt.Printf("  Row %d: %v\n", i, row)
		}
	}
}
