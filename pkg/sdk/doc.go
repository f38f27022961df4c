// Package sentimentd embeds the tweet sentiment analyzer in a Go program.
//
// The client loads the trained vectorizer and classifier once and is safe for
// concurrent use. Each Session owns an isolated, in-memory analysis history.
//
//	client, err := sentimentd.New(
//	    sentimentd.WithArtifacts("models/vectorizer.json", "models/model.json"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sess := client.NewSession()
//	res, _ := sess.Analyze(ctx, "I love this new phone!")
//	fmt.Println(res.Label, res.Confidence)
//
// Blank input returns ErrEmptyInput and is not recorded in the history.
package sentimentd
