// Package entitlements tracks which plan each user is on. One entitlement
// per user is active at a time; upgrades supersede the previous row rather
// than deleting it, so the purchase history stays intact.
package entitlements

import (
	"errors"
	"fmt"
	"time"

	"github.com/VishnuPrakashVP/wedding-app/apperrors"
	"github.com/VishnuPrakashVP/wedding-app/db"
	"github.com/VishnuPrakashVP/wedding-app/models"

	"gorm.io/gorm"
)

// GrantTx supersedes the user's active entitlement and records a new one,
// inside the caller's transaction. The payment pipeline calls this in the
// same transaction that marks the order verified, so the two can never be
// committed separately.
func GrantTx(tx *gorm.DB, userID, planID, orderID string) (models.Entitlement, error) {
	err := tx.Model(&models.Entitlement{}).
		Where("user_id = ? AND active = ?", userID, true).
		Update("active", false).Error
	if err != nil {
		return models.Entitlement{}, fmt.Errorf("superseding entitlement: %w", err)
	}

	ent := models.Entitlement{
		UserID:    userID,
		PlanID:    planID,
		OrderID:   orderID,
		Active:    true,
		GrantedAt: time.Now(),
	}
	if err := tx.Create(&ent).Error; err != nil {
		return models.Entitlement{}, fmt.Errorf("granting entitlement: %w", err)
	}
	return ent, nil
}

// Grant is the standalone form of GrantTx for callers outside the payment
// pipeline (e.g. an admin comp).
func Grant(userID, planID, orderID string) (models.Entitlement, error) {
	var ent models.Entitlement
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		ent, err = GrantTx(tx, userID, planID, orderID)
		return err
	})
	return ent, err
}

// ActivePlan returns the user's current plan, falling back to the catalog's
// free tier when no entitlement exists.
func ActivePlan(userID string) (models.Plan, error) {
	var ent models.Entitlement
	err := db.DB.Where("user_id = ? AND active = ?", userID, true).First(&ent).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return planByName(models.FreePlanName)
	}
	if err != nil {
		return models.Plan{}, fmt.Errorf("loading entitlement: %w", err)
	}

	var plan models.Plan
	if err := db.DB.First(&plan, "id = ?", ent.PlanID).Error; err != nil {
		return models.Plan{}, fmt.Errorf("loading plan: %w", err)
	}
	return plan, nil
}

// CheckUploadQuota reports whether the user may upload another media item
// under their active plan. Rejected items do not count against the quota.
// Pure read, no side effects.
func CheckUploadQuota(userID string) (bool, error) {
	plan, err := ActivePlan(userID)
	if err != nil {
		return false, err
	}

	var count int64
	err = db.DB.Model(&models.Media{}).
		Where("uploaded_by = ? AND status <> ?", userID, models.MediaRejected).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("counting uploads: %w", err)
	}
	return count < int64(plan.UploadLimit), nil
}

func planByName(name string) (models.Plan, error) {
	var plan models.Plan
	if err := db.DB.Where("name = ?", name).First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Plan{}, fmt.Errorf("plan %q: %w", name, apperrors.ErrNotFound)
		}
		return models.Plan{}, fmt.Errorf("loading plan: %w", err)
	}
	return plan, nil
}
