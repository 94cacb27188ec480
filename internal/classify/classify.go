// Package classify provides rule-based specialty classification and
// risk-flag detection as a fast fallback and backstop for AI output.
package classify

import "strings"

// specialtyKeywords scores transcription text against each specialty.
var specialtyKeywords = map[string][]string{
	"Cardiology": {
		"cardiac", "heart", "myocardial", "ecg", "ekg", "coronary",
		"arrhythmia", "palpitation", "angina", "hypertension", "tachycardia",
		"bradycardia", "atrial fibrillation", "heart failure", "ejection fraction",
		"troponin", "bnp", "stent", "catheterization", "echocardiogram",
	},
	"Pulmonology": {
		"pulmonary", "lung", "respiratory", "bronchi", "asthma", "copd",
		"pneumonia", "pleural", "dyspnea", "spirometry", "bronchoscopy",
		"oxygen saturation", "ventilator", "thoracic", "emphysema",
	},
	"Neurology": {
		"neuro", "brain", "stroke", "seizure", "epilepsy", "headache",
		"migraine", "parkinson", "alzheimer", "dementia", "mri brain",
		"eeg", "neuropathy", "multiple sclerosis", "tremor", "vertigo",
	},
	"Orthopedics": {
		"bone", "fracture", "joint", "orthopedic", "ligament", "tendon",
		"arthritis", "osteoporosis", "spine", "lumbar", "cervical disc",
		"cartilage", "meniscus", "acl", "replacement", "dislocation",
	},
	"Gastroenterology": {
		"gastro", "stomach", "intestinal", "bowel", "colon", "liver",
		"hepatic", "ulcer", "colonoscopy", "endoscopy", "crohn",
		"ibs", "reflux", "gerd", "pancreas", "gallbladder",
	},
	"Endocrinology": {
		"diabetes", "thyroid", "hormone", "insulin", "glucose", "hba1c",
		"endocrine", "adrenal", "pituitary", "cortisol", "tsh", "t3", "t4",
		"metabolic", "obesity", "hypothyroid", "hyperthyroid",
	},
	"Oncology": {
		"cancer", "tumor", "malignant", "benign", "chemotherapy",
		"radiation", "oncology", "biopsy", "metastasis", "carcinoma",
		"lymphoma", "leukemia", "staging", "resection", "neoplasm",
	},
	"Psychiatry": {
		"psychiatric", "depression", "anxiety", "mental health", "schizophrenia",
		"bipolar", "psychosis", "therapy", "antidepressant", "ssri",
		"adhd", "ptsd", "substance abuse", "mood disorder",
	},
	"Nephrology": {
		"kidney", "renal", "dialysis", "creatinine", "glomerular",
		"nephropathy", "proteinuria", "uremia", "transplant kidney",
		"gfr", "pkd", "nephrotic", "pyelonephritis",
	},
	"Dermatology": {
		"skin", "dermatology", "rash", "eczema", "psoriasis", "acne",
		"melanoma", "dermatitis", "lesion", "biopsy skin", "urticaria",
	},
	"Obstetrics/Gynecology": {
		"pregnancy", "obstetric", "gynecology", "uterus", "ovarian",
		"cervical", "maternal", "fetal", "delivery", "menstrual",
		"pap smear", "prenatal", "postpartum", "contraception",
	},
	"Ophthalmology": {
		"eye", "vision", "retina", "glaucoma", "cataract", "cornea",
		"ophthalmology", "optometry", "intraocular", "macular",
	},
	"General Practice": {
		"general", "family medicine", "primary care", "checkup",
		"annual", "wellness", "preventive", "routine",
	},
}

// riskKeywords flag critical or urgent findings in transcription text.
var riskKeywords = []string{
	"chest pain", "cardiac arrest", "myocardial infarction", "heart attack",
	"stroke", "tia", "pulmonary embolism", "deep vein thrombosis",
	"respiratory failure", "respiratory distress", "hypoxia", "anoxia",
	"altered consciousness", "loss of consciousness", "seizure", "coma",
	"malignant", "metastasis", "advanced cancer", "stage 4", "stage iv",
	"sepsis", "septic shock", "bacteremia",
	"critical value", "dangerously elevated", "significantly elevated",
	"urgent", "emergent", "critical", "severe", "acute", "immediate",
	"life-threatening", "icu", "intensive care",
}

const maxRiskFlags = 20

// Specialty determines the medical specialty by keyword scoring. An AI
// classification, when present, takes priority. Ties between specialties
// break lexicographically so the result is deterministic.
func Specialty(text string, aiClassification *string) string {
	if aiClassification != nil && strings.TrimSpace(*aiClassification) != "" {
		return strings.TrimSpace(*aiClassification)
	}

	textLower := strings.ToLower(text)
	best := ""
	bestScore := 0
	for specialty, keywords := range specialtyKeywords {
		score := 0
		for _, kw := range keywords {
			if strings.Contains(textLower, kw) {
				score++
			}
		}
		if score > bestScore || (score == bestScore && score > 0 && (best == "" || specialty < best)) {
			best = specialty
			bestScore = score
		}
	}

	if best == "" {
		return "General Practice"
	}
	return best
}

// RiskFlags merges AI-detected flags with rule-based keyword detection,
// capped to avoid noise.
func RiskFlags(text string, aiFlags []string) []string {
	textLower := strings.ToLower(text)

	detected := make([]string, 0, len(aiFlags))
	seen := make(map[string]struct{}, len(aiFlags))
	for _, f := range aiFlags {
		detected = append(detected, f)
		seen[strings.ToLower(f)] = struct{}{}
	}

	for _, kw := range riskKeywords {
		if !strings.Contains(textLower, kw) {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		detected = append(detected, "ALERT: "+title(kw))
		seen[kw] = struct{}{}
	}

	if len(detected) > maxRiskFlags {
		detected = detected[:maxRiskFlags]
	}
	return detected
}

// title uppercases the first letter of each space-separated word.
func title(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
