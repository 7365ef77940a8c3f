package main

import (
	"context"
	"log"
	"os"

	"github.com/medichat/backend/internal/adapters/database"
	"github.com/medichat/backend/internal/domain/entities"
	"github.com/medichat/backend/internal/infrastructure/clients/postgres"
	"github.com/medichat/backend/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	hospitalRepo := database.NewHospitalAdapter(pgClient)
	equipmentRepo := database.NewEquipmentAdapter(pgClient)

	ctx := context.Background()
	db := pgClient.DB()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := db.ExecContext(ctx, `
			TRUNCATE TABLE
				recommendations,
				inference_results,
				chat_messages,
				chat_rooms,
				hospital_equipment,
				hospital_departments,
				disease_equipment,
				department_diseases,
				hospitals,
				departments,
				equipment_categories,
				diseases,
				users
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	// 1. Seed diseases (labels match the classifier's output vocabulary)
	diseases := map[string]string{
		"고혈압": "만성 혈압 상승 질환",
		"감기":  "상기도 바이러스 감염",
		"장염":  "위장관 염증성 질환",
		"편두통": "반복성 두통 질환",
		"당뇨병": "만성 혈당 조절 장애",
	}

	diseaseIDs := map[string]int64{}
	for name, description := range diseases {
		var id int64
		err := db.QueryRowContext(ctx, `
			INSERT INTO diseases (name, description, created_at, updated_at)
			VALUES ($1, $2, NOW(), NOW())
			ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description
			RETURNING id`,
			name, description,
		).Scan(&id)
		if err != nil {
			log.Fatalf("Failed to seed disease %s: %v", name, err)
		}
		diseaseIDs[name] = id
	}

	// 2. Seed departments
	departments := []string{"내과", "신경과", "가정의학과", "이비인후과", "소아청소년과"}
	departmentIDs := map[string]int64{}
	for _, name := range departments {
		var id int64
		err := db.QueryRowContext(ctx, `
			INSERT INTO departments (name, created_at, updated_at)
			VALUES ($1, NOW(), NOW())
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id`,
			name,
		).Scan(&id)
		if err != nil {
			log.Fatalf("Failed to seed department %s: %v", name, err)
		}
		departmentIDs[name] = id
	}

	// 3. Map diseases onto the departments that treat them
	diseaseDepartments := map[string][]string{
		"고혈압": {"내과", "가정의학과"},
		"감기":  {"내과", "이비인후과", "소아청소년과", "가정의학과"},
		"장염":  {"내과", "소아청소년과"},
		"편두통": {"신경과", "내과"},
		"당뇨병": {"내과", "가정의학과"},
	}
	for disease, depts := range diseaseDepartments {
		for _, dept := range depts {
			_, err := db.ExecContext(ctx, `
				INSERT INTO department_diseases (department_id, disease_id)
				VALUES ($1, $2)
				ON CONFLICT (department_id, disease_id) DO NOTHING`,
				departmentIDs[dept], diseaseIDs[disease],
			)
			if err != nil {
				log.Fatalf("Failed to map %s to %s: %v", disease, dept, err)
			}
		}
	}

	// 4. Seed equipment categories
	equipmentCategories := map[string]string{
		"심전도계":     "ECG",
		"혈압계":      "BPM",
		"초음파영상진단기": "US",
		"자동제세동기":   "AED",
	}
	categoryIDs := map[string]int64{}
	for name, code := range equipmentCategories {
		var id int64
		err := db.QueryRowContext(ctx, `
			INSERT INTO equipment_categories (name, code, created_at, updated_at)
			VALUES ($1, $2, NOW(), NOW())
			ON CONFLICT (name) DO UPDATE SET code = EXCLUDED.code
			RETURNING id`,
			name, code,
		).Scan(&id)
		if err != nil {
			log.Fatalf("Failed to seed equipment category %s: %v", name, err)
		}
		categoryIDs[name] = id
	}

	// 5. Map diseases onto required equipment (blank requirement = none)
	diseaseEquipment := map[string][]string{
		"고혈압": {"심전도계", "혈압계"},
		"장염":  {"초음파영상진단기"},
	}
	for disease, cats := range diseaseEquipment {
		for _, cat := range cats {
			_, err := db.ExecContext(ctx, `
				INSERT INTO disease_equipment (disease_id, category_id)
				VALUES ($1, $2)
				ON CONFLICT (disease_id, category_id) DO NOTHING`,
				diseaseIDs[disease], categoryIDs[cat],
			)
			if err != nil {
				log.Fatalf("Failed to map %s to %s: %v", disease, cat, err)
			}
		}
	}

	// 6. Seed hospitals (서초구 일대)
	type hospitalSeed struct {
		hospital    entities.Hospital
		departments map[string]int // department -> specialist count
		equipment   map[string]int // equipment category -> quantity
	}

	hospitals := []hospitalSeed{
		{
			hospital: entities.Hospital{
				Name: "서초속편한내과의원", Address: "서울특별시 서초구 서초대로 320",
				Latitude: 37.4921, Longitude: 127.0078,
				Category: entities.CategoryClinic, Phone: "02-521-0119",
			},
			departments: map[string]int{"내과": 2},
			equipment:   map[string]int{"심전도계": 1, "혈압계": 2, "초음파영상진단기": 1},
		},
		{
			hospital: entities.Hospital{
				Name: "반포가정의학과의원", Address: "서울특별시 서초구 반포대로 222",
				Latitude: 37.5013, Longitude: 127.0046,
				Category: entities.CategoryClinic, Phone: "02-535-7582",
			},
			departments: map[string]int{"가정의학과": 1, "내과": 1},
			equipment:   map[string]int{"혈압계": 1},
		},
		{
			hospital: entities.Hospital{
				Name: "서울성모병원", Address: "서울특별시 서초구 반포대로 222",
				Latitude: 37.5016, Longitude: 127.0051,
				Category: entities.CategoryGeneralHospital, Phone: "02-1588-1511",
				Website: "https://www.cmcseoul.or.kr",
			},
			departments: map[string]int{"내과": 42, "신경과": 11, "소아청소년과": 18, "이비인후과": 9},
			equipment:   map[string]int{"심전도계": 12, "혈압계": 40, "초음파영상진단기": 15, "자동제세동기": 20},
		},
		{
			hospital: entities.Hospital{
				Name: "방배신경과의원", Address: "서울특별시 서초구 방배로 126",
				Latitude: 37.4816, Longitude: 126.9945,
				Category: entities.CategoryClinic, Phone: "02-595-7007",
			},
			departments: map[string]int{"신경과": 1},
			equipment:   map[string]int{"혈압계": 1},
		},
		{
			hospital: entities.Hospital{
				Name: "서초구보건소", Address: "서울특별시 서초구 남부순환로 2584",
				Latitude: 37.4836, Longitude: 127.0106,
				Category: entities.CategoryHealthCenter, Phone: "02-2155-8000",
			},
			departments: map[string]int{"내과": 1, "가정의학과": 1},
			equipment:   map[string]int{"혈압계": 3, "자동제세동기": 1},
		},
		{
			hospital: entities.Hospital{
				Name: "서초자생한방병원", Address: "서울특별시 서초구 강남대로 455",
				Latitude: 37.5031, Longitude: 127.0244,
				Category: entities.CategoryOrientalHospital, Phone: "02-3218-2000",
			},
			departments: map[string]int{},
			equipment:   map[string]int{},
		},
		{
			// Excluded category: must never appear in recommendations
			hospital: entities.Hospital{
				Name: "서초요양병원", Address: "서울특별시 서초구 효령로 231",
				Latitude: 37.4859, Longitude: 126.9989,
				Category: entities.CategoryConvalescent, Phone: "02-584-7582",
			},
			departments: map[string]int{"내과": 2},
			equipment:   map[string]int{"혈압계": 2},
		},
	}

	for _, seed := range hospitals {
		h := seed.hospital
		if err := hospitalRepo.Create(ctx, &h); err != nil {
			log.Printf("Failed to create hospital %s: %v", h.Name, err)
			continue
		}

		for dept, specialists := range seed.departments {
			_, err := db.ExecContext(ctx, `
				INSERT INTO hospital_departments (hospital_id, department_id, specialist_count, created_at, updated_at)
				VALUES ($1, $2, $3, NOW(), NOW())
				ON CONFLICT (hospital_id, department_id) DO UPDATE SET specialist_count = EXCLUDED.specialist_count`,
				h.ID, departmentIDs[dept], specialists,
			)
			if err != nil {
				log.Printf("Failed to link department %s to hospital %s: %v", dept, h.Name, err)
			}
		}

		for cat, quantity := range seed.equipment {
			if err := equipmentRepo.UpsertHolding(ctx, h.ID, categoryIDs[cat], quantity); err != nil {
				log.Printf("Failed to link equipment %s to hospital %s: %v", cat, h.Name, err)
			}
		}
	}

	log.Println("Seeding completed successfully with 서초구 hospital directory sample")
}
