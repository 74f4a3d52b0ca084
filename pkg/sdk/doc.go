// Package homesearch embeds the household search engine in a Go program.
//
// One call searches documents, folders, categories and members at once,
// ranks the documents, caches the merged result for a few minutes and keeps
// a short per-user history that feeds autocomplete.
//
//	client, _ := homesearch.New(ctx,
//	    homesearch.WithSQLite("data/home.db"),
//	    homesearch.WithUser("alice", "Alice"),
//	)
//	defer client.Close()
//
//	_ = client.PutDocuments(ctx, []homesearch.Document{{Name: "March invoice", Type: "pdf"}})
//	res, _ := client.Search(ctx, "invoice", homesearch.Filter{}, homesearch.SearchOptions{})
//	hints := client.Suggest(ctx, "inv", 10)
package homesearch
