package form

import (
	"github.com/jonathan/cv-generator/internal/catalog"
	"github.com/jonathan/cv-generator/internal/types"
)

// Placeholder values used when an entry is appended without content
const (
	DefaultSkill    = "Nueva Habilidad"
	DefaultRole     = "Nuevo Rol"
	DefaultLanguage = "Inglés"
)

// DefaultDocument returns a fresh copy of the example résumé shown on first
// load and restored by ResetToDefault
func DefaultDocument() types.CVDocument {
	return types.CVDocument{
		ProfileImage: nil,
		Name:         "Santiago",
		LastName:     "Peralta",
		Title:        "Desarrollador FullStack y Consultor Tecnológico",
		Contact: types.ContactInfo{
			Location:  "Córdoba, Argentina",
			Phone:     "+543515678901",
			Email:     "santiago.peralta.dev@gmail.com",
			LinkedIn:  "https://linkedin.com/in/santiago-peralta",
			GitHub:    "https://github.com/santiagoperalta",
			Portfolio: "https://santiagoperalta.dev",
		},
		Summary: "Soy un desarrollador FullStack con más de 3 años de experiencia en el sector tecnológico. " +
			"Apasionado por resolver problemas complejos y aprender nuevas tecnologías. " +
			"Actualmente colaboro con empresas para construir soluciones innovadoras.",
		Skills: []string{
			"JavaScript", "TypeScript", "React.js", "Node.js", "Express.js",
			"PostgreSQL", "MongoDB", "GraphQL", "Docker", "Kubernetes", "AWS",
		},
		Education: []types.EducationEntry{
			{
				Degree:      "Licenciatura en Sistemas de Información",
				Institution: "Universidad Nacional de Córdoba",
				Period:      "2016 - 2021",
			},
			{
				Degree:      "Diplomatura en Desarrollo FullStack",
				Institution: "Universidad Tecnológica Nacional",
				Period:      "2022",
			},
		},
		WorkExperience: []types.WorkExperienceEntry{
			{
				Company: "SoftCraft Solutions",
				Period:  "2021 - 2023",
				Roles: []string{
					"Desarrollo de aplicaciones web utilizando React.js y Node.js",
					"Mantenimiento de bases de datos relacionales y no relacionales",
					"Implementación de microservicios en entornos cloud",
				},
			},
			{
				Company: "Freelance",
				Period:  "2023 - Presente",
				Roles: []string{
					"Creación de soluciones personalizadas para clientes locales e internacionales",
					"Automatización de procesos empresariales con herramientas modernas",
					"Consultoría tecnológica para pequeñas y medianas empresas",
				},
			},
		},
		Languages: []types.LanguageEntry{
			{Language: "Español", Level: "Nativo"},
			{Language: "Inglés", Level: "B2"},
		},
		Palette: catalog.DefaultPalette(),
	}
}
