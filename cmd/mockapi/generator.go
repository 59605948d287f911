package main

import (
	"hash/fnv"
	"strconv"
	"time"

	"github.com/agendalivre/agenda/internal/schedule"
)

const (
	defaultProfessionalID = "2684"
	defaultUnitID         = "901"
	defaultDays           = 15
	maxDays               = schedule.MaxWindowDays
)

type professionalFixture struct {
	ID        string
	Name      string
	Specialty string
}

var professionals = []professionalFixture{
	{"2684", "Dr(a). Pat Duarte", "Cardiologia"},
	{"512", "Dr. Ícaro Menezes", "Dermatologia"},
	{"782", "Dr(a). Helena Faria", "Clínica Geral"},
	{"903", "Dr. André Ribeiro", "Ortopedia"},
}

var units = map[string]string{
	"901": "Clínica Central",
	"905": "Unidade Bela Vista",
	"910": "Centro Norte",
	"915": "Hub Telemedicina",
}

var slotStarts = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00",
	"14:00", "14:30", "15:00", "15:30", "16:00",
}

// windowRequest is the sanitized query for one schedule window.
type windowRequest struct {
	Version        string
	ProfessionalID string
	UnitID         string
	Days           int
	StartDate      string
}

// sanitizeWindow applies defaults and snaps an out-of-range start date to
// today, which is exactly what a real backend would echo back in
// start_date_applied.
func sanitizeWindow(version, professionalID, unitID, daysRaw, startDate string, now time.Time) windowRequest {
	req := windowRequest{
		Version:        version,
		ProfessionalID: professionalID,
		UnitID:         unitID,
		Days:           defaultDays,
	}
	if req.ProfessionalID == "" {
		req.ProfessionalID = defaultProfessionalID
	}
	if req.UnitID == "" {
		req.UnitID = defaultUnitID
	}
	if days, err := strconv.Atoi(daysRaw); err == nil && days > 0 {
		if days > maxDays {
			days = maxDays
		}
		req.Days = days
	}

	todayISO := schedule.TodayISO(now)
	maxISO := schedule.AddDays(todayISO, maxDays)
	req.StartDate = todayISO
	if _, err := schedule.ParseDate(startDate); err == nil && startDate >= todayISO && startDate <= maxISO {
		req.StartDate = startDate
	}
	return req
}

// buildWindow produces one entry per business day of the window.
// Availability is a stable function of the request so repeated fetches agree.
func buildWindow(req windowRequest) []schedule.Entry {
	prof := professionals[0]
	for _, p := range professionals {
		if p.ID == req.ProfessionalID {
			prof = p
			break
		}
	}
	unitName, ok := units[req.UnitID]
	if !ok {
		unitName = "Unidade " + req.UnitID
	}

	start, err := schedule.ParseDate(req.StartDate)
	if err != nil {
		return nil
	}

	entries := make([]schedule.Entry, 0, req.Days)
	for i := 0; i < req.Days; i++ {
		day := start.AddDate(0, 0, i)
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		date := schedule.FormatDate(day)

		slots := make([]schedule.Slot, 0, len(slotStarts))
		for _, at := range slotStarts {
			slots = append(slots, schedule.Slot{
				Start:     at,
				Available: stableBit(date + at + prof.ID),
			})
		}

		entry := schedule.Entry{
			Date:         date,
			Professional: schedule.Professional{ID: schedule.ID(prof.ID), Name: prof.Name},
			Specialty:    schedule.Specialty{Name: prof.Specialty},
			Unit:         schedule.Unit{ID: schedule.ID(req.UnitID), Name: unitName},
			Slots:        slots,
		}
		// v1 predates room assignments; clients must cope with the absence.
		if req.Version == "v2" {
			entry.Room = schedule.Room{Name: "Sala " + strconv.Itoa(1+int(hash32(date+req.UnitID))%6)}
		}
		entries = append(entries, entry)
	}
	return entries
}

func hash32(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}

func stableBit(s string) bool {
	return hash32(s)%3 != 0
}
