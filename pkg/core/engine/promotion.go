package engine

import (
	"sort"

	"github.com/nuriabp/ambulatori-rota/pkg/core/model"
)

// weeklyTrainingCap is the most training promotions one nurse can receive per
// ISO week.
const weeklyTrainingCap = 1

// PromoteTraining runs after a day's assignments are otherwise finalized: when
// at least two nurses landed on admin duty, exactly one of them is promoted to
// training duty. The lead nurse, the configured second-priority nurse and
// residents are never promoted, nor is anyone at the weekly training cap.
//
// Candidates who held admin or training duty the previous calendar day go into
// a secondary bucket; the promoted nurse comes from the primary bucket ranked
// by lowest cumulative training count, falling back to the secondary bucket
// only when the primary one is empty.
func PromoteTraining(day *dayState, prevCells map[string]model.ScheduleCell, roster []model.Nurse, stats *Stats, secondPriorityID string) {
	byID := make(map[string]model.Nurse, len(roster))
	for _, n := range roster {
		byID[n.ID] = n
	}

	var admins []model.Nurse
	for nurseID, cell := range day.cells {
		if day.overridden[nurseID] {
			continue
		}
		if cat, ok := cell.CategoryTag(); ok && cat == model.Admin {
			admins = append(admins, byID[nurseID])
		}
	}
	if len(admins) < 2 {
		return
	}

	var primary, secondary []model.Nurse
	for _, nurse := range admins {
		if nurse.Role == model.RoleLead || nurse.Role == model.RoleResident {
			continue
		}
		if nurse.ID == secondPriorityID {
			continue
		}
		if stats.WeeklyTraining(nurse.ID) >= weeklyTrainingCap {
			continue
		}
		if heldAdminOrTraining(prevCells, nurse.ID) {
			secondary = append(secondary, nurse)
		} else {
			primary = append(primary, nurse)
		}
	}

	bucket := primary
	if len(bucket) == 0 {
		bucket = secondary
	}
	if len(bucket) == 0 {
		return
	}

	sort.Slice(bucket, func(i, j int) bool {
		ti := stats.Totals(bucket[i].ID).Training
		tj := stats.Totals(bucket[j].ID).Training
		if ti != tj {
			return ti < tj
		}
		return bucket[i].Order < bucket[j].Order
	})

	day.assign(bucket[0].ID, model.CategoryCell(model.Training))
}

func heldAdminOrTraining(prevCells map[string]model.ScheduleCell, nurseID string) bool {
	cell, ok := prevCells[nurseID]
	if !ok {
		return false
	}
	cat, ok := cell.CategoryTag()
	if !ok {
		return false
	}
	switch cat {
	case model.Admin, model.AdminEvening, model.Training, model.TrainingAbroad:
		return true
	}
	return false
}
