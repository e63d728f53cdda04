// Command seed loads a small farm (zones, land plots, workers and a day of
// assignments) into the configured database. Running it twice is harmless.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"farmwork/config"
	"farmwork/database"
	"farmwork/entities"
	"farmwork/pkg/apperror"
	asgRepoImp "farmwork/pkg/assignment/repositoryImp"
	"farmwork/pkg/assignment/service"
	asgSvcImp "farmwork/pkg/assignment/serviceImp"
	plotRepoImp "farmwork/pkg/landplot/repositoryImp"
	"farmwork/pkg/logging"
	workerRepoImp "farmwork/pkg/worker/repositoryImp"
)

type seedWorker struct {
	name, email string
	role        entities.Role
	expertise   string
}

var workers = []seedWorker{
	{"Farm Owner", "owner@farm.local", entities.RoleFarmOwner, `{}`},
	{"Ana Reyes", "ana@farm.local", entities.RoleWorker, `{"skills":["soil prep","planting"],"hourlyRate":15}`},
	{"Ben Ortiz", "ben@farm.local", entities.RoleWorker, `{"skills":["irrigation"],"hourlyRate":14}`},
	{"Chloe Park", "chloe@farm.local", entities.RoleWorker, `{"skills":["harvest","pruning"],"hourlyRate":16}`},
}

func main() {
	day := flag.String("date", time.Now().UTC().Format(entities.DateLayout), "work date for the sample assignments")
	flag.Parse()

	cfg := config.Load()
	log := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Error("open database", "err", err)
		os.Exit(1)
	}
	plots := plotRepoImp.New(db)
	people := workerRepoImp.New(db)

	// 1) Workers
	var ids []string
	for _, sw := range workers {
		w, err := people.FindByEmail(ctx, sw.email)
		if err != nil {
			log.Error("find worker", "email", sw.email, "err", err)
			os.Exit(1)
		}
		if w == nil {
			w = &entities.Worker{
				ID:        uuid.NewString(),
				Name:      sw.name,
				Email:     sw.email,
				Role:      sw.role,
				Status:    "ACTIVE",
				Expertise: datatypes.JSON(sw.expertise),
			}
			if err := people.Create(ctx, w); err != nil {
				log.Error("create worker", "email", sw.email, "err", err)
				os.Exit(1)
			}
			log.Info("worker created", "id", w.ID, "name", w.Name)
		}
		if w.Role == entities.RoleWorker {
			ids = append(ids, w.ID)
		}
	}

	// 2) Zone + plots (fixed ids so reruns find them)
	zone := &entities.Zone{ID: "zone-east", Name: "East Field", Color: "#4caf50"}
	if err := db.WithContext(ctx).FirstOrCreate(zone, "id = ?", zone.ID).Error; err != nil {
		log.Error("create zone", "err", err)
		os.Exit(1)
	}
	plotIDs := []string{"plot-east-1", "plot-east-2"}
	existing, err := plots.ListByZone(ctx, zone.ID)
	if err != nil {
		log.Error("list plots", "zone", zone.ID, "err", err)
		os.Exit(1)
	}
	have := make(map[string]bool, len(existing))
	for _, p := range existing {
		have[p.ID] = true
	}
	for i, id := range plotIDs {
		if have[id] {
			continue
		}
		p := &entities.LandPlot{ID: id, Name: "East " + string(rune('A'+i)), Area: 1200, Status: "AVAILABLE", ZoneID: zone.ID}
		if err := plots.Create(ctx, p); err != nil {
			log.Error("create plot", "id", id, "err", err)
			os.Exit(1)
		}
	}

	// 3) Assignments through the scheduler, so the seed obeys the same rules
	loc, err := cfg.Location()
	if err != nil {
		log.Error("load time zone", "tz", cfg.Timezone, "err", err)
		os.Exit(1)
	}
	svc := asgSvcImp.NewAssignmentService(asgRepoImp.New(db), asgSvcImp.WithLogger(log), asgSvcImp.WithLocation(loc))
	base, err := time.ParseInLocation(entities.DateLayout, *day, loc)
	if err != nil {
		log.Error("bad -date", "err", err)
		os.Exit(1)
	}
	slots := []struct {
		plot, task string
		worker     int
		from, to   int
	}{
		{plotIDs[0], "Soil Prep", 0, 8, 12},
		{plotIDs[0], "Planting", 1, 12, 16},
		{plotIDs[1], "Irrigation", 1, 7, 9},
		{plotIDs[1], "Harvest", 2, 9, 13},
	}
	for _, s := range slots {
		_, err := svc.Create(ctx, service.CreateInput{
			WorkerID:   ids[s.worker],
			LandPlotID: s.plot,
			WorkDate:   *day,
			StartTime:  base.Add(time.Duration(s.from) * time.Hour),
			EndTime:    base.Add(time.Duration(s.to) * time.Hour),
			HourlyRate: 15,
			Task:       s.task,
			LandArea:   400,
		})
		switch {
		case err == nil:
		case apperror.ConflictKindOf(err) == apperror.ConflictTimeOverlap:
			log.Info("slot already booked", "plot", s.plot, "task", s.task)
		default:
			log.Error("create assignment", "plot", s.plot, "err", err)
			os.Exit(1)
		}
	}
	log.Info("seed complete", "date", *day)
}
