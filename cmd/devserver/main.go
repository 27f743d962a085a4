// devserver runs the in-memory fake backend so the TUI can be developed
// without the real API. State lives only for the lifetime of the process.
package main

import (
	"flag"
	"log"
	"net/http"

	"eatfit/internal/api/apitest"
	"eatfit/internal/model"
)

func main() {
	addr := flag.String("addr", ":8000", "listen address")
	flag.Parse()

	srv := apitest.New()

	// a ready-made account for quick manual testing
	height, weight, age := 180.0, 75.0, 30
	sex := model.SexOther
	activity := model.ActivityModerate
	goal := model.GoalMaintain
	srv.Seed(model.SignupInput{
		Email:         "demo@eatfit.local",
		Password:      "demo123",
		FullName:      "Demo User",
		Height:        &height,
		Weight:        &weight,
		Age:           &age,
		Sex:           &sex,
		ActivityLevel: &activity,
		FitnessGoal:   &goal,
	})
	log.Printf("seeded demo@eatfit.local / demo123")

	mux := http.NewServeMux()
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", srv.Handler()))

	log.Printf("fake EatFit backend listening on %s", *addr)
	log.Fatal(http.ListenAndServe(*addr, mux))
}
