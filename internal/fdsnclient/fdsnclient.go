// Seedcore - Seismic Waveform Acquisition Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/seedcore

// Package fdsnclient is a concrete remote.Client against the FDSN web
// service family (fdsnws-station, fdsnws-event, fdsnws-dataselect). The
// wire protocol is explicitly an external collaborator to the core; this
// package is the thin, swappable adapter the core's remote.Client
// interface was written against, not part of the core's own design.
package fdsnclient

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/seedcore/internal/apperr"
	"github.com/tomtom215/seedcore/internal/model"
	"github.com/tomtom215/seedcore/internal/remote"
)

// knownServices maps a config client identifier to its FDSN web service
// base URL. Unrecognized identifiers are treated as a base URL directly,
// so a private or mirrored node can still be addressed.
var knownServices = map[string]string{
	"IRIS":    "https://service.iris.edu",
	"USGS":    "https://earthquake.usgs.gov",
	"ORFEUS":  "https://www.orfeus-eu.org",
	"GEOFON":  "https://geofon.gfz-potsdam.de",
	"RESIF":   "https://ws.resif.fr",
	"NCEDC":   "https://service.ncedc.org",
	"SCEDC":   "https://service.scedc.caltech.edu",
	"AUSPASS": "https://auspass.edu.au",
}

// resolveBaseURL returns the FDSN web service base URL for a config client
// identifier, falling back to treating the identifier as a literal URL.
func resolveBaseURL(client string) string {
	if u, ok := knownServices[strings.ToUpper(client)]; ok {
		return u
	}
	return strings.TrimSuffix(client, "/")
}

// Client implements remote.Client against one FDSN node's station, event,
// and dataselect web services.
type Client struct {
	StationBaseURL    string
	EventBaseURL      string
	DataselectBaseURL string
	HTTP              *http.Client
	Credentials       remote.Credentials
}

// New builds a Client for the named station/event/dataselect service
// identifiers (each resolved independently, since an operator may mix
// nodes) sharing one credential set.
func New(stationClient, eventClient, dataselectClient string, creds remote.Credentials) *Client {
	return &Client{
		StationBaseURL:    resolveBaseURL(stationClient),
		EventBaseURL:      resolveBaseURL(eventClient),
		DataselectBaseURL: resolveBaseURL(dataselectClient),
		HTTP:              &http.Client{Timeout: 2 * time.Minute},
		Credentials:       creds,
	}
}

// GetWaveforms issues one fdsnws-dataselect query and returns the raw
// MiniSEED byte stream.
func (c *Client) GetWaveforms(ctx context.Context, req remote.WaveformRequest) ([]byte, error) {
	q := url.Values{}
	setIfNonEmpty(q, "net", req.Network)
	setIfNonEmpty(q, "sta", req.Station)
	setIfNonEmpty(q, "loc", req.Location)
	setIfNonEmpty(q, "cha", req.Channel)
	q.Set("start", fdsnTime(req.Start))
	q.Set("end", fdsnTime(req.End))

	body, err := c.get(ctx, c.DataselectBaseURL+"/fdsnws/dataselect/1/query", q, req.Network, req.Station)
	if err != nil {
		return nil, &apperr.FetchError{Request: requestLabel(req), Err: err}
	}
	return body, nil
}

// GetStations issues one fdsnws-station text-format query at channel level
// and parses the result into an Inventory.
func (c *Client) GetStations(ctx context.Context, req remote.StationRequest) (model.Inventory, error) {
	q := url.Values{}
	setIfNonEmpty(q, "net", req.Network)
	setIfNonEmpty(q, "sta", req.Station)
	setIfNonEmpty(q, "loc", req.Location)
	setIfNonEmpty(q, "cha", req.Channel)
	if !req.Start.IsZero() {
		q.Set("start", fdsnTime(req.Start))
	}
	if !req.End.IsZero() {
		q.Set("end", fdsnTime(req.End))
	}
	if req.IncludeRestricted {
		q.Set("includerestricted", "true")
	}
	q.Set("level", "channel")
	q.Set("format", "text")

	body, err := c.get(ctx, c.StationBaseURL+"/fdsnws/station/1/query", q, req.Network, req.Station)
	if err != nil {
		return model.Inventory{}, &apperr.FetchError{Request: "station inventory", Err: err}
	}
	return parseStationText(body), nil
}

// GetEvents issues one fdsnws-event text-format query and parses the
// result into an EventCatalog.
func (c *Client) GetEvents(ctx context.Context, req remote.EventRequest) (model.EventCatalog, error) {
	q := url.Values{}
	if !req.Start.IsZero() {
		q.Set("starttime", fdsnTime(req.Start))
	}
	if !req.End.IsZero() {
		q.Set("endtime", fdsnTime(req.End))
	}
	if req.MinDepthKm != 0 {
		q.Set("mindepth", strconv.FormatFloat(req.MinDepthKm, 'f', -1, 64))
	}
	if req.MaxDepthKm != 0 {
		q.Set("maxdepth", strconv.FormatFloat(req.MaxDepthKm, 'f', -1, 64))
	}
	if req.MinMagnitude != 0 {
		q.Set("minmagnitude", strconv.FormatFloat(req.MinMagnitude, 'f', -1, 64))
	}
	if req.MaxMagnitude != 0 {
		q.Set("maxmagnitude", strconv.FormatFloat(req.MaxMagnitude, 'f', -1, 64))
	}
	setIfNonEmpty(q, "contributor", req.Contributor)
	if req.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Limit))
	}
	if req.Offset > 0 {
		q.Set("offset", strconv.Itoa(req.Offset))
	}
	if req.IncludeAllOrigins {
		q.Set("includeallorigins", "true")
	}
	if req.IncludeAllMagnitudes {
		q.Set("includeallmagnitudes", "true")
	}
	q.Set("format", "text")

	body, err := c.get(ctx, c.EventBaseURL+"/fdsnws/event/1/query", q, "", "")
	if err != nil {
		return model.EventCatalog{}, &apperr.FetchError{Request: "event catalog", Err: err}
	}
	return parseEventText(body), nil
}

func (c *Client) get(ctx context.Context, base string, q url.Values, network, station string) ([]byte, error) {
	full := base + "?" + q.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return nil, err
	}
	if cred, ok := c.Credentials.Resolve(network, station); ok && cred.User != "" {
		httpReq.SetBasicAuth(cred.User, cred.Password)
	}

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fdsn request to %s: status %d: %s", base, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return body, nil
}

func setIfNonEmpty(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func fdsnTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05")
}

func parseFDSNTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return model.OpenEnded
	}
	for _, layout := range []string{"2006-01-02T15:04:05.999999", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return model.OpenEnded
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func requestLabel(req remote.WaveformRequest) string {
	return fmt.Sprintf("%s.%s.%s.%s", req.Network, req.Station, req.Location, req.Channel)
}

// parseStationText parses fdsnws-station format=text&level=channel output:
// #Network|Station|Location|Channel|Latitude|Longitude|Elevation|Depth|
// Azimuth|Dip|SensorDescription|Scale|ScaleFreq|ScaleUnits|SampleRate|
// StartTime|EndTime
func parseStationText(body []byte) model.Inventory {
	stations := make(map[string]*model.Station) // keyed by "NET.STA"
	var order []string

	scanner := bufio.NewScanner(strings.NewReader(string(body)))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "|")
		if len(fields) < 17 {
			continue
		}
		net, sta, loc, cha := fields[0], fields[1], fields[2], fields[3]
		lat, lon, elev := parseFloat(fields[4]), parseFloat(fields[5]), parseFloat(fields[6])
		sampleRate := parseFloat(fields[14])
		start, end := parseFDSNTime(fields[15]), parseFDSNTime(fields[16])

		key := net + "." + sta
		st, ok := stations[key]
		if !ok {
			st = &model.Station{Network: net, Code: sta, Lat: lat, Lon: lon, Elev: elev, Start: start, End: end}
			stations[key] = st
			order = append(order, key)
		}
		st.Channels = append(st.Channels, model.Channel{
			Code: cha, Location: loc, SampleRate: sampleRate, Start: start, End: end,
		})
	}

	var inv model.Inventory
	byNet := make(map[string][]model.Station)
	var netOrder []string
	for _, key := range order {
		st := stations[key]
		if _, seen := byNet[st.Network]; !seen {
			netOrder = append(netOrder, st.Network)
		}
		byNet[st.Network] = append(byNet[st.Network], *st)
	}
	for _, net := range netOrder {
		inv.Networks = append(inv.Networks, model.Network{Code: net, Stations: byNet[net]})
	}
	return inv
}

// parseEventText parses fdsnws-event format=text output:
// #EventID|Time|Latitude|Longitude|Depth/km|Author|Catalog|Contributor|
// ContributorID|MagType|Magnitude|MagAuthor|EventLocationName
func parseEventText(body []byte) model.EventCatalog {
	var catalog model.EventCatalog
	scanner := bufio.NewScanner(strings.NewReader(string(body)))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "|")
		if len(fields) < 11 {
			continue
		}
		catalog.Events = append(catalog.Events, model.Event{
			ID:        fields[0],
			Time:      parseFDSNTime(fields[1]),
			Lat:       parseFloat(fields[2]),
			Lon:       parseFloat(fields[3]),
			DepthKm:   parseFloat(fields[4]),
			Magnitude: parseFloat(fields[10]),
		})
	}
	return catalog
}
