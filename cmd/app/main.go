package main

import (
	"github.com/ds124wfegd/adgen/config"
	"github.com/ds124wfegd/adgen/internal/appServer"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	envFile := config.GetEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil {
		logrus.Infof("no %s file loaded, using process environment", envFile)
	}

	viperInstance, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Cannot load config. Error: {%s}", err.Error())
	}

	cfg, err := config.ParseConfig(viperInstance)
	if err != nil {
		logrus.Fatalf("Cannot parse config. Error: {%s}", err.Error())
	}

	if err := appServer.NewServer(cfg); err != nil {
		logrus.Fatal(err)
	}
}
