package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/soundvault/vinylstore/config"
	"github.com/soundvault/vinylstore/internal/application"
)

type seedVinyl struct {
	Title       string
	Artist      string
	Image       string
	Description []string
	Tracklist   []string
	Stock       int
	Price       int64
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	creds := application.CredentialCodec{Bcrypt: cfg.AuthBcryptEnabled}

	email := "admin@example.com"
	password := "admin123"
	stored, err := creds.Encode(password)
	if err != nil {
		log.Fatalf("failed to encode password: %v", err)
	}

	var adminID int64
	err = db.QueryRow(`
		INSERT INTO users (first_name, last_name, email, password, phone, role, address)
		VALUES ($1, $2, $3, $4, $5, 'admin', $6)
		ON CONFLICT (email) DO UPDATE SET role = 'admin'
		RETURNING id
	`, "Admin", "User", email, stored, "966189340", "").Scan(&adminID)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%d email=%s password=%s\n", adminID, email, password)

	vinyls := []seedVinyl{
		{
			Title:  "Hit me hard & soft",
			Artist: "Billie Eilish",
			Image:  "assets/img/hitme.jpg",
			Description: []string{
				"Billie Eilish's third studio album, released through Darkroom/Interscope Records, is her boldest work to date, a diverse yet cohesive collection of songs, ideally heard in full from start to finish.",
				"Exactly as the title suggests, it hits hard and soft both lyrically and sonically, shifting genres and defying trends along the way.",
				"With the help of her brother and sole collaborator, FINNEAS, the pair wrote, recorded and produced the album together in their hometown of Los Angeles.",
			},
			Tracklist: []string{
				"Skinny", "Lunch", "Chihiro", "Birds Of A Feather", "Wildflower",
				"The Greatest", "LAmour De Ma Vie", "The Diner", "Bittersuite", "Blue",
			},
			Stock: 10,
			Price: 5000,
		},
	}

	for _, v := range vinyls {
		desc, _ := json.Marshal(v.Description)
		tracks, _ := json.Marshal(v.Tracklist)
		var id int64
		err := db.QueryRow(`
			INSERT INTO vinyls (title, artist, image, description, tracklist, stock, price, is_available)
			VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
			RETURNING id
		`, v.Title, v.Artist, v.Image, string(desc), string(tracks), v.Stock, v.Price).Scan(&id)
		if err != nil {
			log.Fatalf("failed to seed vinyl %q: %v", v.Title, err)
		}
		fmt.Printf("seeded vinyl: id=%d title=%q artist=%s\n", id, v.Title, v.Artist)
	}
}
