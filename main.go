package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"masjidfinder_backend/internals/configs"
	database "masjidfinder_backend/internals/databases"
	masjidCache "masjidfinder_backend/internals/features/masjids/masjids/cache"
	masjidService "masjidfinder_backend/internals/features/masjids/masjids/service"
	requestRepo "masjidfinder_backend/internals/features/requests/repository"
	requestService "masjidfinder_backend/internals/features/requests/service"
	authRepo "masjidfinder_backend/internals/features/users/auth/repository"
	scheduler "masjidfinder_backend/internals/features/users/auth/scheduler"
	authService "masjidfinder_backend/internals/features/users/auth/service"
	userService "masjidfinder_backend/internals/features/users/user/service"
	helper "masjidfinder_backend/internals/helpers"
	middlewares "masjidfinder_backend/internals/middlewares"
	authMiddleware "masjidfinder_backend/internals/middlewares/auth"
	routes "masjidfinder_backend/internals/route"
	"masjidfinder_backend/internals/seeds"
)

func main() {
	seedOnly := flag.Bool("seed", false, "jalankan migrasi + seed masjid lalu keluar")
	flag.Parse()

	configs.LoadEnv()
	if err := configs.Validate(); err != nil {
		log.Fatalf("❌ Config tidak valid: %v", err)
	}
	helper.SetExposeInternalErrors(configs.IsDevelopment())

	if *seedOnly {
		runSeeds()
		return
	}

	// 🔌 DB connect + pool + migrasi
	if err := database.ConnectDB(); err != nil {
		log.Fatalf("❌ Gagal konek DB: %v", err)
	}
	database.TunePool()
	if err := database.Migrate(database.DB); err != nil {
		log.Fatalf("❌ Migrasi gagal: %v", err)
	}

	// 🧠 cache masjid (opsional)
	cache, closeCache := newMasjidCache()
	defer closeCache()

	// 🧩 wiring
	repos := requestRepo.NewGormRepositories(database.DB)
	txManager := requestRepo.NewGormTxManager(database.DB)
	blacklist := authRepo.NewGormBlacklistRepository(database.DB)

	tokens, err := authService.NewTokenService(configs.JWTSecret)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	identity := userService.NewIdentityService(repos.Users, authService.NewPasswordService())

	deps := routes.Deps{
		Auth:        authService.NewAuthService(identity, tokens, blacklist),
		Identity:    identity,
		Masjids:     masjidService.NewMasjidService(repos.Masjids, repos.Users, cache),
		Workflow:    requestService.NewWorkflowService(txManager, repos, cache),
		Protect:     authMiddleware.AuthMiddleware(tokens, repos.Users, blacklist),
		HealthCheck: database.Ping,
		Environment: configs.AppEnv,
	}

	app := routes.NewApp(deps, middlewares.Options{
		CORSOrigins:     configs.CORSOrigins,
		CORSAllowVercel: configs.CORSAllowVercel,
		RequestTimeout:  5 * time.Second,
		AccessLog:       true,
	})

	// ⏱ scheduler setelah DB siap
	cleanup, err := scheduler.StartBlacklistCleanupScheduler(blacklist, configs.BlacklistCleanupSpec)
	if err != nil {
		log.Fatalf("❌ Scheduler gagal: %v", err)
	}

	// 🔒 Keep-Alive & timeout koneksi server
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	// Start server non-blocking
	go func() {
		log.Printf("✅ Listening on :%s (%s)", configs.Port, configs.AppEnv)
		if err := app.Listen("0.0.0.0:" + configs.Port); err != nil {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown + tutup pool DB
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)
	<-cleanup.Stop().Done()
	database.Close()
}

func newMasjidCache() (masjidCache.MasjidCache, func()) {
	if configs.RedisURL == "" {
		return masjidCache.NopMasjidCache{}, func() {}
	}
	opt, err := redis.ParseURL(configs.RedisURL)
	if err != nil {
		log.Printf("[WARN] REDIS_URL tidak valid, cache dimatikan: %v", err)
		return masjidCache.NopMasjidCache{}, func() {}
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		// tetap dipakai; error per-operasi hanya di-log
		log.Printf("[WARN] Redis belum bisa di-ping: %v", err)
	} else {
		log.Println("✅ Redis connected.")
	}
	return masjidCache.NewRedisMasjidCache(client, configs.MasjidCacheTTL), func() { _ = client.Close() }
}

func runSeeds() {
	db, err := configs.InitSeederDB()
	if err != nil {
		log.Fatalf("❌ Gagal koneksi ke database (Seeder): %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("❌ Migrasi gagal: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	if err := seeds.RunAllSeeds(ctx, db, configs.SeedMasjidsFile); err != nil {
		log.Fatalf("❌ Seed gagal: %v", err)
	}
}
