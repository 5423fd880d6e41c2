package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii"
	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii/api"
	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii/auth"
	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii/cipher"
	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii/credentials"
	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii/dte"
	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii/model"
	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii/qr"
	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii/session"
	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii/storage"
	"github.com/Rentapro/sistema-contabilidad-chile-sub005/sii/util"
)

func main() {

	logrus.SetLevel(logrus.DebugLevel)

	rutEmpresa := util.GetEnvOrFailed("SII_RUT_EMPRESA")
	rutUsuario := util.GetEnvOrFailed("SII_RUT_USUARIO")
	clave := util.GetEnvOrFailed("SII_CLAVE")
	secreto := util.GetEnvOrFailed("SII_SECRETO_LOCAL")

	ambiente := sii.Certificacion
	if v, ok := os.LookupEnv("SII_AMBIENTE"); ok {
		if err := ambiente.UnmarshalText([]byte(v)); err != nil {
			panic(err)
		}
	}

	client := api.New(ambiente.BaseURL())
	facade := auth.NewFacade(client)

	ciph, err := cipher.NewFromSecret(secreto)
	if err != nil {
		panic(err)
	}

	kv := storage.NewFile(".sii-estado.json")
	credStore := credentials.NewStore(ciph, kv)
	manager := session.New(facade, kv, session.WithCredentialStore(credStore))

	ctx := context.Background()

	ses, err := manager.Authenticate(ctx, &model.Credenciales{
		RutEmpresa: rutEmpresa,
		RutUsuario: rutUsuario,
		Clave:      clave,
		Ambiente:   ambiente.Name(),
	}, true)
	if err != nil {
		panic(err)
	}
	fmt.Println("sesión hasta:", ses.Expira)

	go manager.Run(ctx)

	servicio := dte.NewService(client, manager)

	doc := &model.Documento{
		Folio:         1500,
		TipoDocumento: model.TipoFacturaElectronica,
		RutEmisor:     rutEmpresa,
		RutReceptor:   "11111111-1",
		FechaEmision:  time.Now(),
		MontoNeto:     100000,
		MontoIVA:      19000,
		MontoTotal:    119000,
		Detalle: []model.DetalleItem{
			{Nombre: "Servicio contable", Cantidad: 1, PrecioUnitario: 100000, MontoItem: 100000},
		},
	}

	res := servicio.Submit(ctx, doc)
	if !res.Exito {
		panic(res.Error)
	}
	fmt.Println("track id:", res.TrackID)

	estado, err := servicio.QueryStatus(ctx, res.TrackID)
	if err != nil {
		panic(err)
	}
	fmt.Printf("estado: %s (%s)\n", estado.Estado, estado.Glosa)

	dteXML, err := dte.BuildXML(doc)
	if err != nil {
		panic(err)
	}
	enlace, err := qr.GenerateVerificationLink(ambiente, doc, dteXML)
	if err != nil {
		panic(err)
	}
	if png, err := qr.GeneratePNG(enlace, 256); err == nil {
		_ = os.WriteFile("verificacion.png", png, 0o600)
	}
	fmt.Println("verificación:", enlace)
}
