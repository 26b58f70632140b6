package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/abtiwary/pulsewire/pkg/pulsewire"
)

func main() {
	flow, err := pulsewire.Conf("../../config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	callback := func(rec pulsewire.HealthRecord) error {
		observed := time.Unix(0, int64(rec.ObservedAt*float64(time.Second)))
		fmt.Printf("%s status=%d latency=%.3fs\n",
			observed.Format(time.RFC3339Nano),
			rec.StatusCode,
			rec.Latency,
		)
		return nil
	}

	if err := flow.Run(ctx, pulsewire.StreamOutCallback("stdout", callback)); err != nil && err != context.Canceled {
		log.Fatalf("runtime error: %v", err)
	}
}
