package testing

import (
	"os"
	"sync"
	stdtesting "testing"
)

var once sync.Once

// testDefaults point LexQuote's outbound clients at unroutable addresses so
// nothing under test reaches Gotenberg, the admin API or the FX provider.
var testDefaults = map[string]string{
	"GOTENBERG_URL":    "http://127.0.0.1:0",
	"ADMIN_API_URL":    "http://127.0.0.1:0",
	"EXCHANGE_API_URL": "http://127.0.0.1:0",
	"CSRF_SECRET":      "lexquote-test-csrf-secret",
}

func ensureTestMode() {
	once.Do(func() {
		_ = os.Setenv("LEXQUOTE_TEST_MODE", "1")
		for key, value := range testDefaults {
			if os.Getenv(key) == "" {
				_ = os.Setenv(key, value)
			}
		}
	})
}

func init() {
	ensureTestMode()
}

func TestMain(m *stdtesting.M) {
	ensureTestMode()
	os.Exit(m.Run())
}
