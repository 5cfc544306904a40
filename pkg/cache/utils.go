package cache

import (
	"fmt"
	"strings"
)

// GenerateKey joins a prefix and id into a colon-separated key.
func GenerateKey(prefix, id string) string {
	return prefix + ":" + id
}

// GenerateKeyWithParams builds a key from a prefix and any number of
// parameters, e.g. GenerateKeyWithParams("candles", "AAPL", 200) gives
// "candles:AAPL:200".
func GenerateKeyWithParams(prefix string, params ...interface{}) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, p := range params {
		fmt.Fprintf(&b, ":%v", p)
	}
	return b.String()
}
