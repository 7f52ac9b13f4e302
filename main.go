package main

import (
	"log"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("pas de .env trouvé")
	}

	if err := racine().Execute(); err != nil {
		log.Fatal(err)
	}
}
