// Command stubserver runs the in-process deal-pipeline stub backend on a
// local port, for developing the client without the production service.
package main

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/investbank/pipeline-client/internal/stubserver"
)

func main() {
	addr := flag.String("addr", ":8081", "listen address")
	secret := flag.String("jwt-secret", "dev-secret", "HS256 signing secret")
	flag.Parse()

	srv := stubserver.New(*secret)
	if err := srv.Start(*addr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
