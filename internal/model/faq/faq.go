package faq

import (
	"encoding/json"
	"fmt"
	"os"
)

// Entry is a curated question/answer pair. Entries are loaded once at
// startup and never mutated.
type Entry struct {
	Question string `json:"q"`
	Answer   string `json:"a"`
}

// LoadFile reads a JSON array of entries, allowing the curated set to be
// replaced without a rebuild.
func LoadFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read faq file: %w", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse faq file %s: %w", path, err)
	}
	return entries, nil
}

// Seed provides the production FAQ set for the Cistcor assistant.
func Seed() []Entry {
	return []Entry{
		{
			Question: "¿qué es cistcor?",
			Answer: `¡Hola! 😊 Cistcor es tu sistema de gestión y facturación electrónica que simplifica tu negocio.

Te permite:
• Emitir comprobantes en segundos ⚡
• Controlar tu inventario facilmente 📦
• Obtener reportes en tiempo real de ventas y compras 📊
• Cumplir fácilmente con SUNAT ✅`,
		},
		{
			Question: "¿qué es una factura electrónica?",
			Answer: `Una factura electrónica es un comprobante de pago en formato digital que sirve para sustentar la compraventa de bienes o servicios entre empresas y clientes.

✨ Beneficios:
• Reduce costos de almacenamiento e impresión
• Es más seguro y confiable
• Cumple con normativa SUNAT
• Acceso inmediato desde cualquier dispositivo`,
		},
		{
			Question: "¿qué beneficios obtengo al utilizar cistcor?",
			Answer: `¡Muchísimos beneficios! 🎉 Al usar Cistcor:

• Ahorras tiempo al emitir comprobantes en segundos ⚡
• Conoces tu inventario al instante con un par de clicks 📦
• Te sientes tranquilo de estar al día con SUNAT ✅
• Accedes desde cualquier dispositivo las 24 horas 🌐
• Obtienes reportes de ventas y compras en segundos 📊`,
		},
		{
			Question: "¿qué necesito para implementar cistcor en mi negocio?",
			Answer: `¡Es muy sencillo! Solo necesitas:

1. 📋 Tener un RUC activo y habido
2. 🌐 Contar con internet en tu negocio
3. 💻 Tener una computadora, laptop o Tablet

¡Y listo! Puedes empezar hoy mismo 🚀`,
		},
		{
			Question: "¿cistcor está en la nube o en mi computadora?",
			Answer: `☁️ La plataforma se encuentra en la NUBE, lo que te permite:

• Conectarte en cualquier momento ⏰
• Acceder desde cualquier dispositivo 📱💻
• No preocuparte por instalaciones o mantenimiento
• Trabajar desde tu negocio, casa o donde estés 🌍`,
		},
		{
			Question: "¿cómo elegir un sistema de facturación electrónica para mi negocio?",
			Answer: `Para elegir un buen Sistema de Facturación Electrónica, te recomiendo analizar:

🔍 Aspectos importantes:
• Facilidad de uso e intuitivo
• Soporte técnico responsive
• Validación OSE garantizada
• Actualizaciones periódicas
• Protección de tu información
• Experiencia y reputación

¡Cistcor cumple con todos estos puntos! ✅`,
		},
	}
}
