package shopify_test

import (
	"fmt"
	"log"
	"net/url"

	"github.com/go-training/shopify-token-store/pkg/shopify"
)

func ExampleClient_GenerateAuthorizationURL() {
	client, err := shopify.New(shopify.Config{
		APIKey:       "k",
		SharedSecret: "secret",
		RedirectURI:  "https://app.example.com/cb",
		Scopes:       []string{"read_products", "write_orders"},
	})
	if err != nil {
		log.Fatal(err)
	}

	authURL, err := client.GenerateAuthorizationURL("acme", shopify.WithNonce("n0nce"))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(authURL)
	// Output: https://acme.myshopify.com/admin/oauth/authorize?scope=read_products%2Cwrite_orders&state=n0nce&redirect_uri=https%3A%2F%2Fapp.example.com%2Fcb&client_id=k
}

func ExampleClient_VerifyHMAC() {
	client, err := shopify.New(shopify.Config{
		APIKey:       "k",
		SharedSecret: "secret",
		RedirectURI:  "https://app.example.com/cb",
	})
	if err != nil {
		log.Fatal(err)
	}

	query := url.Values{
		"code":      {"abc"},
		"shop":      {"acme.myshopify.com"},
		"timestamp": {"123"},
	}
	query.Set("hmac", shopify.SignQuery("secret", query))

	fmt.Println(client.VerifyHMAC(query))
	query.Set("code", "forged")
	fmt.Println(client.VerifyHMAC(query))
	// Output:
	// true
	// false
}
