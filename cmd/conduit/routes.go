package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
)

// Routes lists the routes of the demo app.
type Routes struct{}

// Run the routes command.
func (c *Routes) Run(cfg *appConfig) error {
	a := newApp(cfg, demoOptions{registry: prometheus.NewRegistry(), exposeMetrics: true})

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "METHOD\tPATH")
	for _, r := range a.Routes() {
		fmt.Fprintf(w, "%s\t%s\n", r.Method, r.Path)
	}
	return w.Flush()
}
