// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

package planner

import (
	"context"
	"time"

	"github.com/tomtom215/seedcore/internal/geo"
	"github.com/tomtom215/seedcore/internal/index"
	"github.com/tomtom215/seedcore/internal/logging"
	"github.com/tomtom215/seedcore/internal/metrics"
	"github.com/tomtom215/seedcore/internal/model"
	"github.com/tomtom215/seedcore/internal/streamkey"
	"github.com/tomtom215/seedcore/internal/travetime"
)

// ArrivalIndex is the subset of the archive index the event planner needs:
// memoized arrival lookup and the bulk-insert of newly computed ones.
type ArrivalIndex interface {
	FetchArrivalsExt(eventID, network, station string) (index.ArrivalExt, bool, error)
	BulkInsertArrivals(records []model.ArrivalRecord) error
}

// Event plans fetch requests for a single event against every station in
// inv operational at the event's origin time, reusing memoized arrivals
// where available and falling back to ttModel for the rest. Stations for
// which no first arrival can be computed are skipped, not an error.
func Event(ctx context.Context, idx ArrivalIndex, ttModel travetime.Model, ev model.Event, inv model.Inventory, channelPref []string, beforeP, afterP time.Duration) ([]model.FetchRequest, error) {
	before, after := absDuration(beforeP), absDuration(afterP)

	narrowed := inv.OperationalAt(ev.Time)

	var out []model.FetchRequest
	var newArrivals []model.ArrivalRecord

	for _, n := range narrowed.Networks {
		for _, s := range n.Stations {
			ch, ok := s.HighestSampleRateChannel(channelPref)
			if !ok {
				continue
			}

			ext, found, err := idx.FetchArrivalsExt(ev.ID, n.Code, s.Code)
			if err != nil {
				return nil, err
			}

			var p, sArr time.Time
			if found {
				if ext.P.IsZero() {
					continue
				}
				p, sArr = ext.P, ext.S
			} else {
				distKm := geo.DistanceKm(ev.Lat, ev.Lon, s.Lat, s.Lon)
				distDeg := geo.DistanceDeg(ev.Lat, ev.Lon, s.Lat, s.Lon)
				azimuth := geo.ForwardAzimuth(ev.Lat, ev.Lon, s.Lat, s.Lon)

				firstP, firstS, ok := ttModel.FirstArrival(travetime.TTBasic, ev.DepthKm, distDeg)
				if !ok {
					metrics.TravelTimeUnavailableTotal.Inc()
					logging.LoggerFromContext(ctx).Warn().
						Str("event_id", ev.ID).
						Str("station", n.Code+"."+s.Code).
						Msg("no travel-time arrival for this geometry")
					continue
				}
				p = ev.Time.Add(time.Duration(firstP.OffsetSec * float64(time.Second)))
				sArr = ev.Time.Add(time.Duration(firstS.OffsetSec * float64(time.Second)))

				newArrivals = append(newArrivals, model.ArrivalRecord{
					EventID:        ev.ID,
					Magnitude:      ev.Magnitude,
					EventLat:       ev.Lat,
					EventLon:       ev.Lon,
					EventDepthKm:   ev.DepthKm,
					EventOrigin:    ev.Time,
					StationNetwork: n.Code,
					StationCode:    s.Code,
					StationLat:     s.Lat,
					StationLon:     s.Lon,
					StationElev:    s.Elev,
					StationStart:   s.Start,
					StationEnd:     s.End,
					DistanceDeg:    distDeg,
					DistanceKm:     distKm,
					AzimuthDeg:     azimuth,
					PArrival:       p,
					SArrival:       sArr,
					Model:          ttModel.Name(),
				})
			}

			out = append(out, model.FetchRequest{
				Pattern: streamkey.Pattern{Network: n.Code, Station: s.Code, Location: ch.Location, Channel: ch.Code},
				Start:   p.Add(-before),
				End:     p.Add(after),
			})
		}
	}

	if len(newArrivals) > 0 {
		if err := idx.BulkInsertArrivals(newArrivals); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
