package controllers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"flood-alert-backend/config"
	"flood-alert-backend/models"
	"flood-alert-backend/utils"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
)

type WaterStationController struct {
	DataURL         string
	StationNamesURL string
	SyncClient      *http.Client
	NamesClient     *http.Client
	Clock           clockwork.Clock
}

func NewWaterStationController(cfg *config.Config) *WaterStationController {
	return &WaterStationController{
		DataURL:         cfg.DataURL,
		StationNamesURL: cfg.StationNamesURL,
		SyncClient:      &http.Client{Timeout: cfg.SyncTimeout},
		NamesClient:     &http.Client{Timeout: cfg.NamesTimeout},
		Clock:           clockwork.NewRealClock(),
	}
}

// fetchStationNames builds an id -> display name map from the stations feed.
// The feed is optional: every failure (network, status, parse, shape) yields
// an empty map so the sync can fall back to "Station {id}" names.
func (wc *WaterStationController) fetchStationNames() map[string]string {
	stationMap := map[string]string{}

	resp, err := wc.NamesClient.Get(wc.StationNamesURL)
	if err != nil {
		log.WithError(err).Warn("could not fetch station names, using IDs instead")
		return stationMap
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.WithField("status", resp.StatusCode).Warn("could not fetch station names, using IDs instead")
		return stationMap
	}

	var entries []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		log.WithError(err).Warn("could not parse station names, using IDs instead")
		return stationMap
	}

	for _, entry := range entries {
		id := stringifyID(entry["id"])
		if id == "" {
			continue
		}
		if name, ok := entry["name"].(string); ok && name != "" {
			stationMap[id] = name
		} else if name, ok := entry["station"].(string); ok && name != "" {
			stationMap[id] = name
		}
	}
	return stationMap
}

// stringifyID normalizes the feed's id field, which may arrive as a JSON
// number or a string.
func stringifyID(v interface{}) string {
	switch id := v.(type) {
	case string:
		return id
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	default:
		return ""
	}
}

// coerceLevel mirrors the feed's loose typing: levels usually arrive as
// strings ("1.35") but sometimes as bare numbers. Anything else is 0.0.
func coerceLevel(v interface{}) float64 {
	switch level := v.(type) {
	case string:
		f, err := strconv.ParseFloat(level, 64)
		if err != nil {
			return 0.0
		}
		return f
	case float64:
		return level
	default:
		return 0.0
	}
}

// SyncWaterLevels pulls the recent-observed feed and upserts one row per
// station, keyed by display name. The whole run happens in one transaction
// committed after all stations are processed.
func (wc *WaterStationController) SyncWaterLevels(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		count, err := wc.runSync(db)
		if err != nil {
			log.WithError(err).Error("water level sync failed")
			utils.RespondWithError(w, http.StatusInternalServerError,
				models.Error{Detail: fmt.Sprintf("Failed to sync: %s", err)})
			return
		}

		utils.ResponseJSON(w, map[string]interface{}{"status": "success", "stations_synced": count})
	}
}

func (wc *WaterStationController) runSync(db *sql.DB) (int, error) {
	log.Info("fetching water levels")
	resp, err := wc.SyncClient.Get(wc.DataURL)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("data feed returned status %d", resp.StatusCode)
	}

	// Feed shape: {"<station id>": [{"<date>": "<level>"}, ...], ...}.
	// Each station's readings are decoded individually so one malformed
	// entry does not abort the whole sync.
	var waterData map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&waterData); err != nil {
		return 0, err
	}

	stationMap := wc.fetchStationNames()

	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	now := wc.Clock.Now().UTC().Format("2006-01-02 15:04:05")
	count := 0

	for stationID, raw := range waterData {
		var readings []map[string]interface{}
		if err := json.Unmarshal(raw, &readings); err != nil || len(readings) == 0 {
			continue
		}

		// The feed puts the most recent observation last.
		latest := readings[len(readings)-1]
		var waterLevel float64
		for _, v := range latest {
			waterLevel = coerceLevel(v)
			break
		}

		name, ok := stationMap[stationID]
		if !ok {
			name = fmt.Sprintf("Station %s", stationID)
		}

		if err := upsertStation(tx, name, stationID, waterLevel, now); err != nil {
			return 0, err
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}

// upsertStation matches on the display name: an existing row only gets its
// water level refreshed, a new row gets placeholder river and danger values.
func upsertStation(tx *sql.Tx, name, stationID string, waterLevel float64, now string) error {
	var existingID int
	err := tx.QueryRow("SELECT id FROM water_stations WHERE station_name = ?", name).Scan(&existingID)
	if err == nil {
		_, err = tx.Exec("UPDATE water_stations SET water_level = ?, last_updated = ? WHERE id = ?",
			waterLevel, now, existingID)
		return err
	}
	if err != sql.ErrNoRows {
		return err
	}

	_, err = tx.Exec(
		"INSERT INTO water_stations (station_name, river_name, water_level, danger_level, last_updated) VALUES (?, ?, ?, 0, ?)",
		name, fmt.Sprintf("River ID %s", stationID), waterLevel, now)
	return err
}

func (wc *WaterStationController) GetWaterLevels(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := db.Query("SELECT id, station_name, river_name, water_level, danger_level, last_updated FROM water_stations")
		if err != nil {
			log.WithError(err).Error("querying water stations")
			utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Detail: "Failed to get water levels."})
			return
		}
		defer rows.Close()

		stations := []models.WaterStation{}
		for rows.Next() {
			var s models.WaterStation
			if err := rows.Scan(&s.ID, &s.StationName, &s.RiverName, &s.WaterLevel, &s.DangerLevel, &s.LastUpdated); err != nil {
				log.WithError(err).Error("scanning water station")
				utils.RespondWithError(w, http.StatusInternalServerError, models.Error{Detail: "Failed to get water levels."})
				return
			}
			stations = append(stations, s)
		}

		utils.ResponseJSON(w, stations)
	}
}
