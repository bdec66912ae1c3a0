package masjid

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"

	"masjidfinder_backend/internals/constants"
	"masjidfinder_backend/internals/features/masjids/masjids/model"
	"masjidfinder_backend/internals/features/masjids/masjids/repository"
	userModel "masjidfinder_backend/internals/features/users/user/model"
)

// SeedMasjidsFromJSON: isi file = array MasjidData (format sama dengan body POST /api/masjids).
// Pemilik = main_admin; dilewati kalau main_admin belum ada.
func SeedMasjidsFromJSON(ctx context.Context, db *gorm.DB, filePath string) (int, error) {
	log.Println("📥 Membaca file:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("read seed file: %w", err)
	}

	var masjids []model.MasjidData
	if err := sonic.Unmarshal(file, &masjids); err != nil {
		return 0, fmt.Errorf("decode seed file: %w", err)
	}

	var owner userModel.UserModel
	err = db.WithContext(ctx).Where("role = ?", constants.RoleMainAdmin).First(&owner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Println("ℹ️ main_admin belum ada, seed masjid dilewati (register user pertama dulu)")
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("find main_admin: %w", err)
	}

	repo := repository.NewGormMasjidRepository(db)
	inserted := 0
	for i, m := range masjids {
		if err := m.ValidateComplete(); err != nil {
			log.Printf("❌ Seed #%d tidak valid: %v", i, err)
			continue
		}

		var count int64
		if err := db.WithContext(ctx).Model(&model.MasjidModel{}).
			Where("masjid_name = ? AND masjid_address = ?", *m.MasjidName, *m.MasjidAddress).
			Count(&count).Error; err != nil {
			return inserted, fmt.Errorf("check existing masjid: %w", err)
		}
		if count > 0 {
			log.Printf("ℹ️ Masjid %s sudah ada, lewati...", *m.MasjidName)
			continue
		}

		row := m.ToModel(owner.ID, time.Now())
		if err := repo.Create(ctx, &row); err != nil {
			log.Printf("❌ Gagal insert masjid %s: %v", row.MasjidName, err)
			continue
		}
		inserted++
		log.Printf("✅ Berhasil insert masjid %s (%s)", row.MasjidName, row.MasjidID)
	}
	return inserted, nil
}
