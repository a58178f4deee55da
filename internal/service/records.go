package service

import (
	"time"

	"github.com/beforetheshoes/traveling-snails/models"
)

// tripToRecord flattens a trip into the backend's record shape. The record
// name is the trip's logical id, so every device addresses the same remote
// record for the same trip.
func tripToRecord(trip models.Trip, zone models.ZoneID) models.RemoteRecord {
	return models.RemoteRecord{
		ID:   models.RecordID{Name: trip.ID, Zone: zone},
		Type: models.RecordTypeTrip,
		Fields: map[string]any{
			"name":         trip.Name,
			"notes":        trip.Notes,
			"start_date":   trip.StartDate.Format(time.RFC3339),
			"end_date":     trip.EndDate.Format(time.RFC3339),
			"has_end_date": trip.HasEndDate,
			"protected":    trip.Protected,
		},
	}
}

func activityToRecord(a models.Activity, zone models.ZoneID) models.RemoteRecord {
	return models.RemoteRecord{
		ID:   models.RecordID{Name: a.ID, Zone: zone},
		Type: models.RecordTypeActivity,
		Fields: map[string]any{
			"trip_id": a.TripID,
			"name":    a.Name,
			"start":   a.Start.Format(time.RFC3339),
			"end":     a.End.Format(time.RFC3339),
			"cost":    a.Cost,
			"notes":   a.Notes,
		},
	}
}

// shareFromRecord rebuilds a share from its wire record. The record name is
// the share id and the "root_record" field names the trip the share hangs off;
// a record without that field yields an empty trip id and can only be matched
// against the cache by share id.
func shareFromRecord(rec models.RemoteRecord) (models.Share, string) {
	tripID, _ := rec.Fields["root_record"].(string)
	title, _ := rec.Fields["title"].(string)
	url, _ := rec.Fields["url"].(string)
	permission, _ := rec.Fields["public_permission"].(string)

	share := models.Share{
		ShareID:          rec.ID.Name,
		RootRecordID:     models.RecordID{Name: tripID, Zone: rec.ID.Zone},
		Title:            title,
		URL:              url,
		PublicPermission: models.Permission(permission),
	}
	return share, tripID
}

func lodgingToRecord(l models.Lodging, zone models.ZoneID) models.RemoteRecord {
	return models.RemoteRecord{
		ID:   models.RecordID{Name: l.ID, Zone: zone},
		Type: models.RecordTypeLodging,
		Fields: map[string]any{
			"trip_id":   l.TripID,
			"name":      l.Name,
			"check_in":  l.CheckIn.Format(time.RFC3339),
			"check_out": l.CheckOut.Format(time.RFC3339),
			"cost":      l.Cost,
		},
	}
}
