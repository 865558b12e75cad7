// Package sink exports decoded sensor samples to external telemetry
// stores. Influx is the only implementation today; it writes one point
// per STREAM frame using a blocking write API, matching the style of a
// small serial-to-InfluxDB bridge rather than a high-throughput batcher.
package sink

import (
	"context"
	"fmt"
	"log"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
)

// Influx writes decoded samples to an InfluxDB bucket, one point per call
// to WriteSample.
type Influx struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
}

// NewInflux opens a client against url/token and binds a blocking write
// API for org/bucket. Close must be called to release the client.
func NewInflux(url, token, org, bucket string) *Influx {
	client := influxdb2.NewClient(url, token)
	return &Influx{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		bucket:   bucket,
	}
}

// Close releases the underlying HTTP client.
func (s *Influx) Close() {
	s.client.Close()
}

// WriteSample records one decoded sample as an InfluxDB point tagged by
// runtime_id and sensor type_id, measured at ts.
func (s *Influx) WriteSample(runtimeID, typeID uint8, fields map[string]interface{}, ts time.Time) error {
	p := influxdb2.NewPoint(
		"sensor_sample",
		map[string]string{
			"runtime_id": fmt.Sprintf("%d", runtimeID),
			"type_id":    fmt.Sprintf("%d", typeID),
		},
		fields,
		ts,
	)
	if err := s.writeAPI.WritePoint(context.Background(), p); err != nil {
		log.Printf("[sink] influx write failed bucket=%s: %v", s.bucket, err)
		return err
	}
	return nil
}
