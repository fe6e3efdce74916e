package records

import (
	"context"
	"fmt"

	"cruzados-backend/internal/commission"
)

type sample struct {
	name        string
	category    Category
	description string
	files       []string
}

var samples = map[commission.Commission][]sample{
	commission.General: {
		{name: "Juramento del Cruzado", category: CategoryText, description: "El juramento solemne que todo nuevo miembro debe prestar ante la Vera Cruz y sus hermanos."},
		{name: "Manual de Formación de Combate", category: CategoryDocument, description: "Documento PDF con las formaciones, movimientos y coreografías de combate para los desfiles.", files: []string{"formacion_combate_v3.pdf"}},
		{name: "Diseño del Estandarte", category: CategoryImage, description: "Archivos de imagen con el diseño oficial del estandarte del grupo para la temporada actual.", files: []string{"estandarte_final.jpg", "estandarte_vectores.svg"}},
		{name: "Acta de la última Asamblea", category: CategoryDocument, description: "Resumen y decisiones tomadas en la última asamblea general de los Cruzados."},
		{name: "Himno \"El Diví\"", category: CategoryText, description: "Letra completa de nuestro himno en latín y su traducción al castellano."},
	},
	commission.RedesSociales: {
		{name: "Estrategia Redes Sociales 2024", category: CategoryDocument, description: "Plan de contenidos para las redes sociales durante las fiestas patronales."},
		{name: "Publicación San Andrés", category: CategoryImage, description: "Fotografías del desfile en honor a San Andrés Apóstol."},
	},
	commission.Patrimonio: {
		{name: "Inventario Vestuario Histórico", category: CategoryDocument, description: "Registro completo de trajes, armas y complementos históricos del grupo."},
	},
	commission.Avituallamiento: {
		{name: "Lista Material Desfiles", category: CategoryDocument, description: "Inventario del equipamiento necesario para desfiles y eventos."},
	},
}

// Seed inserts the sample records into every commission that has none yet
// and returns how many were written.
func Seed(ctx context.Context, repo Repo) (int, error) {
	written := 0
	for _, c := range commission.All {
		list := samples[c]
		if len(list) == 0 {
			continue
		}
		existing, err := repo.List(ctx, c)
		if err != nil {
			return written, fmt.Errorf("seed %s: %w", c, err)
		}
		if len(existing) > 0 {
			continue
		}
		for _, s := range list {
			files := make([]File, 0, len(s.files))
			for _, name := range s.files {
				files = append(files, File{Name: name, URL: placeholderURL(name)})
			}
			draft := Draft{Name: s.name, Category: s.category, Description: s.description, Files: files}
			if _, err := repo.Insert(ctx, c, draft); err != nil {
				return written, fmt.Errorf("seed %s: %w", c, err)
			}
			written++
		}
	}
	return written, nil
}
