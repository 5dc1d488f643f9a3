// Package rest adds typed JSON calls on top of httpclient.
//
//	client, _ := rest.New(httpclient.Config{BaseURL: "https://api.telegram.org"})
//	resp, err := rest.Post[envelope](ctx, client, "/bot<token>/sendMessage", params)
//
// When the server answers with an error status and a JSON body, both the
// decoded response and the classified error are returned.
package rest
