package report

import (
	"time"

	"github.com/Chris-Schnaufer/sparcd-old/internal/analysis"
	"github.com/Chris-Schnaufer/sparcd-old/internal/logger"
	"github.com/Chris-Schnaufer/sparcd-old/internal/model"
)

var (
	reg    = model.NewRegistry()
	coyote = reg.Species("Coyote", "Canis latrans")
	deer   = reg.Species("Mule Deer", "Odocoileus hemionus")
	javel  = reg.Species("Javelina", "Pecari tajacu")
	ridge  = reg.Location("Ridge", 32.2217, -110.9265, 900)
	wash   = reg.Location("Wash", 32.2217, -110.8265, 750)
	canyon = reg.Location("Canyon", 32.3217, -110.9265, 1100)

	mst = time.FixedZone("MST", -7*60*60)
)

func at(year int, month time.Month, day, hour, minute int) time.Time {
	return time.Date(year, month, day, hour, minute, 0, 0, mst)
}

func img(t time.Time, loc *model.Location, obs ...model.SpeciesObservation) *model.ImageRecord {
	return &model.ImageRecord{DateTaken: t, LocationTaken: loc, SpeciesPresent: obs}
}

func see(s *model.Species, n int) model.SpeciesObservation {
	return model.SpeciesObservation{Species: s, Count: n}
}

func newContext(images []*model.ImageRecord) *analysis.Context {
	return analysis.NewContext(images, 60, analysis.WithLogger(logger.NewNopLogger()))
}

// sampleImages spans two months and three locations. Coyotes are nocturnal, deer are
// crepuscular and javelina only visit the wash at midday.
func sampleImages() []*model.ImageRecord {
	var images []*model.ImageRecord
	for day := 1; day <= 28; day += 3 {
		images = append(images,
			img(at(2024, time.March, day, 2, 10), ridge, see(coyote, 1)),
			img(at(2024, time.March, day, 2, 20), ridge, see(coyote, 2)),
			img(at(2024, time.April, day, 22, 0), canyon, see(coyote, 1)),
			img(at(2024, time.March, day, 6, 30), wash, see(deer, 3)),
			img(at(2024, time.April, day, 19, 15), ridge, see(deer, 1), see(coyote, 1)),
			img(at(2024, time.April, day, 12, 0), wash, see(javel, 4)),
		)
	}
	return images
}
