// Healthcheck probes the running server's /health endpoint and exits
// non-zero on failure. Intended as a container health probe where no shell
// utilities are available.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/kursattkorkmazzz/garagely/internal/envconfig"
)

func main() {
	port := envconfig.Get("PORT", "3001")
	url := fmt.Sprintf("http://127.0.0.1:%s/health", port)

	client := &http.Client{Timeout: 3 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		fmt.Fprintf(os.Stderr, "healthcheck: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "healthcheck: unexpected status %d\n", resp.StatusCode)
		os.Exit(1)
	}
}
