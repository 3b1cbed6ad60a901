package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"salonflow-backend/internal/models"
)

// CommissionService aggregates and pays out the ledger rows derived at order
// close time.
type CommissionService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewCommissionService(db *gorm.DB, log *zap.Logger) *CommissionService {
	return &CommissionService{db: db, log: log}
}

// PendingGroup is one collaborator's unpaid total.
type PendingGroup struct {
	CollaboratorID   uint64                    `json:"collaborator_id"`
	CollaboratorName string                    `json:"collaborator_name"`
	TotalAmount      float64                   `json:"total_amount"`
	Records          []models.CommissionRecord `json:"records"`
}

// PendingByCollaborator groups unpaid records per collaborator within the
// optional date range, sorted by descending total.
func (s *CommissionService) PendingByCollaborator(ctx context.Context, salonID uint64, from, to *time.Time) ([]PendingGroup, error) {
	q := s.db.WithContext(ctx).
		Where("salon_id = ? AND paid = ?", salonID, false).
		Order("created_at asc")
	if from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("created_at < ?", *to)
	}

	var records []models.CommissionRecord
	if err := q.Find(&records).Error; err != nil {
		return nil, err
	}

	byStaff := make(map[uint64]*PendingGroup)
	for _, rec := range records {
		group, ok := byStaff[rec.CollaboratorID]
		if !ok {
			group = &PendingGroup{CollaboratorID: rec.CollaboratorID}
			byStaff[rec.CollaboratorID] = group
		}
		group.TotalAmount += rec.Amount
		group.Records = append(group.Records, rec)
	}

	if len(byStaff) > 0 {
		var staff []models.Collaborator
		ids := make([]uint64, 0, len(byStaff))
		for id := range byStaff {
			ids = append(ids, id)
		}
		if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&staff).Error; err != nil {
			return nil, err
		}
		for _, c := range staff {
			if group, ok := byStaff[c.ID]; ok {
				group.CollaboratorName = c.Name
			}
		}
	}

	groups := make([]PendingGroup, 0, len(byStaff))
	for _, group := range byStaff {
		groups = append(groups, *group)
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].TotalAmount != groups[j].TotalAmount {
			return groups[i].TotalAmount > groups[j].TotalAmount
		}
		return groups[i].CollaboratorID < groups[j].CollaboratorID
	})
	return groups, nil
}

// Pay creates one payment batch covering the selected unpaid records (all of
// the collaborator's when recordIDs is empty) and marks them paid. Paid
// records are immutable afterwards: amount and period never change and a
// record belongs to exactly one batch.
func (s *CommissionService) Pay(ctx context.Context, salonID, collaboratorID uint64, recordIDs []uint64, periodStart, periodEnd *time.Time) (*models.CommissionPayment, error) {
	var payment models.CommissionPayment

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("salon_id = ? AND collaborator_id = ? AND paid = ?", salonID, collaboratorID, false)
		if len(recordIDs) > 0 {
			q = q.Where("id IN ?", recordIDs)
		}

		var records []models.CommissionRecord
		if err := q.Order("created_at asc").Find(&records).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return ErrNoPendingCommissions
		}

		now := time.Now()
		total := 0.0
		oldest := now
		for _, rec := range records {
			total += rec.Amount
			if rec.PeriodStart != nil && rec.PeriodStart.Before(oldest) {
				oldest = *rec.PeriodStart
			}
		}

		start := oldest
		if periodStart != nil {
			start = *periodStart
		}
		end := now
		if periodEnd != nil {
			end = *periodEnd
		}

		payment = models.CommissionPayment{
			ReferenceNo:    fmt.Sprintf("PAY-%s", uuid.NewString()[:8]),
			SalonID:        salonID,
			CollaboratorID: collaboratorID,
			Amount:         total,
			PeriodStart:    start,
			PeriodEnd:      end,
			PaidAt:         now,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		ids := make([]uint64, 0, len(records))
		for _, rec := range records {
			ids = append(ids, rec.ID)
		}
		return tx.Model(&models.CommissionRecord{}).
			Where("id IN ?", ids).
			Updates(map[string]interface{}{
				"paid":         true,
				"payment_id":   payment.ID,
				"paid_at":      now,
				"period_end":   end,
				"period_start": gorm.Expr("COALESCE(period_start, ?)", start),
			}).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("commission batch paid",
		zap.Uint64("collaborator_id", collaboratorID),
		zap.Float64("amount", payment.Amount),
		zap.String("reference", payment.ReferenceNo))
	return &payment, nil
}

// History lists a collaborator's payment batches, newest first.
func (s *CommissionService) History(ctx context.Context, salonID, collaboratorID uint64) ([]models.CommissionPayment, error) {
	var payments []models.CommissionPayment
	err := s.db.WithContext(ctx).
		Preload("Records").
		Where("salon_id = ? AND collaborator_id = ?", salonID, collaboratorID).
		Order("paid_at desc").
		Find(&payments).Error
	return payments, err
}
