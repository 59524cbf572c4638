// token emite un JWT firmado con JWT_SECRET para probar la API con autenticación activa.
//
// Uso: go run ./cmd/token [-user ID] [-role admin|bodeguero|auditor]
// Imprime el token en stdout.
//
// Con -hash PASSWORD imprime en cambio la entrada "usuario:rol:hash" lista para AUTH_USERS.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/stock-ledger/internal/application/auth"
	httpRouter "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/jwt"
)

func main() {
	user := flag.String("user", "admin", "identificador del usuario (claim sub)")
	role := flag.String("role", httpRouter.RoleAdmin, "rol: admin, bodeguero o auditor")
	password := flag.String("hash", "", "password a hashear con bcrypt para AUTH_USERS")
	flag.Parse()

	switch *role {
	case httpRouter.RoleAdmin, httpRouter.RoleBodeguero, httpRouter.RoleAuditor:
	default:
		fmt.Fprintf(os.Stderr, "Rol desconocido: %s\n", *role)
		os.Exit(2)
	}

	if *password != "" {
		hash, err := auth.HashPassword(*password)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Hashear password: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s:%s:%s\n", *user, *role, hash)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	if !cfg.JWT.Enabled() {
		fmt.Fprintln(os.Stderr, "JWT_SECRET vacío: la autenticación está deshabilitada")
		os.Exit(1)
	}

	tok, err := jwt.Generate(cfg.JWT.Secret, *user, *role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
