package analyzer

import (
	"math"

	"github.com/gregorizeidler/urbansight/internal/model"
	"github.com/gregorizeidler/urbansight/internal/scorer"
)

// pedestrianWeights combine the five infrastructure sub-scores.
var pedestrianWeights = map[string]float64{
	"sidewalk":      0.30,
	"crossing":      0.25,
	"safety":        0.20,
	"accessibility": 0.15,
	"comfort":       0.10,
}

// pavedSurfaces are surface tags that earn quality points.
var pavedSurfaces = map[string]bool{
	"paved":    true,
	"asphalt":  true,
	"concrete": true,
}

// speedByClass estimates the km/h a road class carries when no limit is
// posted.
var speedByClass = map[string]int{
	"living_street": 20,
	"residential":   30,
	"service":       20,
	"tertiary":      40,
	"secondary":     50,
	"primary":       60,
	"trunk":         80,
	"motorway":      100,
	"pedestrian":    0,
	"footway":       0,
}

const unknownClassSpeed = 50

// infraDescriptions label each pedestrian grade.
var infraDescriptions = map[string]string{
	"A+": "Excellent Pedestrian Infrastructure",
	"A":  "Very Pedestrian-Friendly",
	"B":  "Good Pedestrian Infrastructure",
	"C":  "Fair Pedestrian Infrastructure",
	"D":  "Poor Pedestrian Infrastructure",
	"F":  "Very Poor Pedestrian Infrastructure",
}

// EstimatedSpeed returns the class-estimated speed in km/h. A road is
// treated as pedestrian friendly when this is at most 30.
func EstimatedSpeed(class string) int {
	if v, ok := speedByClass[class]; ok {
		return v
	}
	return unknownClassSpeed
}

// Pedestrian grades the collected walking infrastructure. It always
// produces a result; empty infrastructure falls through to the sub-score
// floors and reports a default status.
func Pedestrian(infra model.PedestrianInfra) model.PedestrianScore {
	sidewalk := sidewalkScore(infra.Sidewalks)
	crossing := crossingScore(infra.Crossings, infra.SignalDistances)
	safety := roadSafetyScore(infra.Roads, infra.LampDistances)
	access := accessibilityScore(infra.Crossings, infra.Sidewalks)
	comfort := comfortScore(infra.PedestrianWayDists, infra.Sidewalks)

	overall := scorer.Combine(map[string]float64{
		"sidewalk":      sidewalk,
		"crossing":      crossing,
		"safety":        safety,
		"accessibility": access,
		"comfort":       comfort,
	}, pedestrianWeights)

	status := model.ScoreOK
	if infra.Empty() {
		status = model.ScoreDefault
	}
	grade := scorer.Grade(overall)
	return model.PedestrianScore{
		Overall:       overall,
		Sidewalk:      sidewalk,
		Crossing:      crossing,
		Safety:        safety,
		Accessibility: access,
		Comfort:       comfort,
		Grade:         grade,
		Description:   infraDescriptions[grade],
		Status:        status,
	}
}

// sidewalkScore rewards total sidewalk length within 100 m plus surface,
// lighting and wheelchair quality.
func sidewalkScore(sidewalks []model.Sidewalk) float64 {
	if len(sidewalks) == 0 {
		return 0
	}

	var nearby []model.Sidewalk
	for _, s := range sidewalks {
		if s.Distance <= 100 {
			nearby = append(nearby, s)
		}
	}
	if len(nearby) == 0 {
		return 20
	}

	var length, quality float64
	for _, s := range nearby {
		length += s.Length
		if pavedSurfaces[s.Surface] {
			quality += 10
		}
		if s.Lit == "yes" {
			quality += 5
		}
		if s.Wheelchair == "yes" {
			quality += 5
		}
	}
	return math.Min(math.Min(length/10, 70)+math.Min(quality, 30), 100)
}

// crossingScore rewards crossings and signals within 200 m plus signal and
// tactile-paving quality on the nearby crossings.
func crossingScore(crossings []model.Crossing, signalDists []float64) float64 {
	if len(crossings) == 0 && len(signalDists) == 0 {
		return 30
	}

	var nearby []model.Crossing
	for _, c := range crossings {
		if c.Distance <= 200 {
			nearby = append(nearby, c)
		}
	}
	var signals int
	for _, d := range signalDists {
		if d <= 200 {
			signals++
		}
	}

	score := 40.0
	score += math.Min(float64(len(nearby))*15, 30)
	score += math.Min(float64(signals)*20, 30)
	for _, c := range nearby {
		if c.Signals == "yes" {
			score += 5
		}
		if c.TactilePaving == "yes" {
			score += 3
		}
	}
	return math.Min(score, 100)
}

// roadSafetyScore scores the share of pedestrian-friendly roads within
// 150 m plus street lamps within 100 m.
func roadSafetyScore(roads []model.Road, lampDists []float64) float64 {
	if len(roads) == 0 {
		return 50
	}

	var nearby []model.Road
	for _, r := range roads {
		if r.Distance <= 150 {
			nearby = append(nearby, r)
		}
	}
	if len(nearby) == 0 {
		return 60
	}

	var friendly int
	for _, r := range nearby {
		if EstimatedSpeed(r.Class) <= 30 {
			friendly++
		}
	}
	score := float64(friendly) / float64(len(nearby)) * 70

	var lamps int
	for _, d := range lampDists {
		if d <= 100 {
			lamps++
		}
	}
	score += math.Min(float64(lamps)*5, 30)
	return math.Min(score, 100)
}

// accessibilityScore counts tactile and wheelchair features across every
// crossing and sidewalk.
func accessibilityScore(crossings []model.Crossing, sidewalks []model.Sidewalk) float64 {
	var features int
	for _, c := range crossings {
		if c.TactilePaving == "yes" {
			features++
		}
		if c.Wheelchair == "yes" {
			features++
		}
	}
	for _, s := range sidewalks {
		if s.Wheelchair == "yes" {
			features++
		}
	}
	return 40 + math.Min(float64(features)*20, 60)
}

// comfortScore rewards pedestrian areas within 200 m plus paved surfaces
// and known widths across every sidewalk.
func comfortScore(pedWayDists []float64, sidewalks []model.Sidewalk) float64 {
	var areas int
	for _, d := range pedWayDists {
		if d <= 200 {
			areas++
		}
	}

	var quality float64
	for _, s := range sidewalks {
		if pavedSurfaces[s.Surface] {
			quality += 5
		}
		if s.Width != "" && s.Width != "unknown" {
			quality += 3
		}
	}

	score := 30 + math.Min(float64(areas)*25, 40) + math.Min(quality, 30)
	return math.Min(score, 100)
}
