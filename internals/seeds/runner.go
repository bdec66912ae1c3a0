package seeds

import (
	"context"
	"log"

	"gorm.io/gorm"

	masjid "masjidfinder_backend/internals/seeds/masjids/masjids"
)

func RunAllSeeds(ctx context.Context, db *gorm.DB, masjidsFile string) error {
	//* Masjid
	n, err := masjid.SeedMasjidsFromJSON(ctx, db, masjidsFile)
	if err != nil {
		return err
	}
	log.Printf("✅ Seed selesai: %d masjid baru", n)
	return nil
}
