package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/fastsearch/internal/model"
)

var searchFlags struct {
	text            string
	searchInContent bool
	isDir           bool
	fileTypes       []string
	folders         []string
	minSizeMB       int64
	maxSizeMB       int64
	minDateSec      int64
	maxDateSec      int64
	dateMode        string
	sortBy          string
	sortOrder       string
	limit           int
	offset          int
	cursor          int64
	pathPattern     string
}

// searchCmd implements search_files: builds a model.SearchRequest from
// flags and runs it through the Query Compiler.
var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search indexed files by metadata and/or content (search_files)",
	RunE: func(cmd *cobra.Command, args []string) error {
		req := model.SearchRequest{
			Text:            searchFlags.text,
			SearchInContent: searchFlags.searchInContent,
			Filters: model.Filters{
				IsDir:           searchFlags.isDir,
				Folders:         searchFlags.folders,
				FileTypes:       searchFlags.fileTypes,
				SizeLimitMB:     [2]int64{searchFlags.minSizeMB, searchFlags.maxSizeMB},
				DateRange:       [2]int64{searchFlags.minDateSec, searchFlags.maxDateSec},
				DateMode:        model.DateMode(searchFlags.dateMode),
				SearchInContent: searchFlags.searchInContent,
			},
			SortBy:      model.SortBy(searchFlags.sortBy),
			SortOrder:   model.SortOrder(searchFlags.sortOrder),
			Limit:       searchFlags.limit,
			Offset:      searchFlags.offset,
			PathPattern: searchFlags.pathPattern,
		}
		if cmd.Flags().Changed("cursor") {
			c := searchFlags.cursor
			req.Cursor = &c
		}

		results, err := app.Store.Search(req)
		if err != nil {
			return err
		}
		for _, f := range results {
			kind := "file"
			if f.IsDir {
				kind = "dir"
			}
			fmt.Printf("%-5s %10d  %s\n", kind, f.Size, f.Path)
		}
		fmt.Printf("%d result(s)\n", len(results))
		return nil
	},
}

func init() {
	f := searchCmd.Flags()
	f.StringVar(&searchFlags.text, "text", "", "name or content substring")
	f.BoolVar(&searchFlags.searchInContent, "content", false, "match text against indexed content instead of name")
	f.BoolVar(&searchFlags.isDir, "dir", false, "restrict to directories")
	f.StringSliceVar(&searchFlags.fileTypes, "type", nil, "restrict to these extensions (repeatable)")
	f.StringSliceVar(&searchFlags.folders, "folder", nil, "restrict to descendants of these roots (repeatable)")
	f.Int64Var(&searchFlags.minSizeMB, "min-size-mb", 0, "minimum size in MiB")
	f.Int64Var(&searchFlags.maxSizeMB, "max-size-mb", 0, "maximum size in MiB (0 = unbounded)")
	f.Int64Var(&searchFlags.minDateSec, "min-date", 0, "minimum date, unix seconds")
	f.Int64Var(&searchFlags.maxDateSec, "max-date", 0, "maximum date, unix seconds (0 = unbounded)")
	f.StringVar(&searchFlags.dateMode, "date-mode", string(model.DateModeModify), "Create or Modify")
	f.StringVar(&searchFlags.sortBy, "sort-by", string(model.SortByName), "Name, Size, LastModified, CreatedAt, or AccessedAt")
	f.StringVar(&searchFlags.sortOrder, "sort-order", string(model.SortAsc), "Asc or Desc")
	f.IntVar(&searchFlags.limit, "limit", 100, "max results, 1-1000")
	f.IntVar(&searchFlags.offset, "offset", 0, "offset pagination, <=100000")
	f.Int64Var(&searchFlags.cursor, "cursor", 0, "keyset pagination cursor (last seen id)")
	f.StringVar(&searchFlags.pathPattern, "path-pattern", "", "substring match against the absolute path")
	rootCmd.AddCommand(searchCmd)
}
