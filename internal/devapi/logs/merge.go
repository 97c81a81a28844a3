package logs

import "github.com/dmitrijs2005/oculog/internal/client/models"

func merge[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func mergePtr[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

func mergeSymptoms(dst *models.Symptoms, src models.Symptoms) {
	mergePtr(&dst.Burning, src.Burning)
	mergePtr(&dst.Redness, src.Redness)
	mergePtr(&dst.Itching, src.Itching)
	mergePtr(&dst.Tearing, src.Tearing)
	mergePtr(&dst.Swelling, src.Swelling)
	mergePtr(&dst.Dryness, src.Dryness)
}

func mergeLifestyle(dst *models.Lifestyle, src models.Lifestyle) {
	mergePtr(&dst.ScreenTimeHours, src.ScreenTimeHours)
	mergePtr(&dst.SleepHours, src.SleepHours)
	mergePtr(&dst.SleepQuality, src.SleepQuality)
	mergePtr(&dst.WaterIntakeLiters, src.WaterIntakeLiters)
	mergePtr(&dst.CaffeineCups, src.CaffeineCups)
	mergePtr(&dst.AlcoholUnits, src.AlcoholUnits)
	mergePtr(&dst.StressLevel, src.StressLevel)
	mergePtr(&dst.OutdoorHours, src.OutdoorHours)
}

func mergeTreatments(dst *models.Treatments, src models.Treatments) {
	mergePtr(&dst.UsedArtificialTears, src.UsedArtificialTears)
	mergePtr(&dst.UsedWarmCompress, src.UsedWarmCompress)
	mergePtr(&dst.UsedLidScrub, src.UsedLidScrub)
	mergePtr(&dst.UsedPrescriptionDrops, src.UsedPrescriptionDrops)
	mergePtr(&dst.UsedOmega3, src.UsedOmega3)
	mergePtr(&dst.UsedHumidifier, src.UsedHumidifier)
}

func mergeEnvironment(dst *models.Environment, src models.Environment) {
	mergePtr(&dst.WoreContacts, src.WoreContacts)
	mergePtr(&dst.ACExposure, src.ACExposure)
	mergePtr(&dst.HeatingExposure, src.HeatingExposure)
}
