package main

import (
	"context"
	"fmt"
	"log"

	"github.com/abtiwary/pulsewire"
)

func main() {
	flow, err := pulsewire.Conf("../../config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, records, closeRecords := pulsewire.NewChannelStore("fanout", 32)
	defer closeRecords()

	go fanoutWorker("ingest", records)

	if err := flow.Run(ctx, pulsewire.StreamOutStore(store)); err != nil && err != context.Canceled {
		log.Fatalf("runtime error: %v", err)
	}
}

func fanoutWorker(name string, records <-chan pulsewire.HealthRecord) {
	for rec := range records {
		fmt.Printf("[%s] status=%d latency=%.3fs body=%dB\n", name, rec.StatusCode, rec.Latency, len(rec.Body))
	}
}
