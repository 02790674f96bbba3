package db

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"edutrack-backend-go/internal/models"
)

func TestBuildLogFilter(t *testing.T) {
	deviceID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		filter   models.LogFilter
		wantOK   bool
		wantKeys []string
	}{
		{
			name:     "empty filter matches everything",
			filter:   models.LogFilter{},
			wantOK:   true,
			wantKeys: nil,
		},
		{
			name:     "action 'all' is a wildcard",
			filter:   models.LogFilter{Action: "all"},
			wantOK:   true,
			wantKeys: nil,
		},
		{
			name:     "specific action",
			filter:   models.LogFilter{Action: models.LogActionDeactivated},
			wantOK:   true,
			wantKeys: []string{"action"},
		},
		{
			name:     "device and user",
			filter:   models.LogFilter{DeviceID: deviceID.Hex(), UserID: userID.Hex()},
			wantOK:   true,
			wantKeys: []string{"device", "performedBy"},
		},
		{
			name:     "date range",
			filter:   models.LogFilter{StartDate: &start, EndDate: &end},
			wantOK:   true,
			wantKeys: []string{"timestamp"},
		},
		{
			name:   "malformed device ID matches nothing",
			filter: models.LogFilter{DeviceID: "not-hex"},
			wantOK: false,
		},
		{
			name:   "malformed user ID matches nothing",
			filter: models.LogFilter{UserID: "not-hex"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, ok := buildLogFilter(tt.filter)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if len(query) != len(tt.wantKeys) {
				t.Fatalf("query = %v, want keys %v", query, tt.wantKeys)
			}
			for _, key := range tt.wantKeys {
				if _, present := query[key]; !present {
					t.Errorf("query %v missing key %q", query, key)
				}
			}
		})
	}
}

func TestBuildLogFilterDateBoundsInclusive(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	query, ok := buildLogFilter(models.LogFilter{StartDate: &start})
	if !ok {
		t.Fatal("filter rejected")
	}
	ts, isMap := query["timestamp"].(bson.M)
	if !isMap {
		t.Fatalf("timestamp clause = %#v", query["timestamp"])
	}
	if got, present := ts["$gte"]; !present || got != start {
		t.Errorf("timestamp clause = %v, want inclusive $gte %v", ts, start)
	}
}
