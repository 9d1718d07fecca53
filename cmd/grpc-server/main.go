package main

import (
	"log"
	"net"

	"google.golang.org/grpc"

	"mangaparsers/internal/grpcserver"
	"mangaparsers/internal/manga"
	"mangaparsers/internal/sources"
	"mangaparsers/pkg/database"
	"mangaparsers/pkg/utils"
)

func main() {
	cfg := database.DefaultConfig()
	db := database.MustOpen(cfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	srvCfg := utils.LoadServerConfig()
	listener, err := net.Listen("tcp", srvCfg.GRPCAddr)
	if err != nil {
		log.Fatalf("grpc listen failed: %v", err)
	}

	svc := grpcserver.NewServer(manga.NewRepo(db), sources.NewRegistry(sources.LoadConfig()))

	grpcServer := grpc.NewServer()
	grpcserver.RegisterCatalogService(grpcServer, svc)
	grpcserver.RegisterSourceService(grpcServer, svc)

	log.Printf("gRPC server listening on %s", srvCfg.GRPCAddr)
	if err := grpcServer.Serve(listener); err != nil {
		log.Fatalf("grpc server stopped: %v", err)
	}
}
