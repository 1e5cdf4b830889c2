package preset

import "github.com/smartadvisor/backend/pkg/contextengine"

func defaultPresets() []Preset {
	return []Preset{
		{
			Name:        "sales",
			Description: "Sales mode - Focus on customer acquisition and revenue",
			ContextData: contextengine.Context{
				"role": "Sales Advisor",
				"mode": "Sales",
				"instructions": []any{
					"Focus on customer needs and value proposition",
					"Be consultative and solution-oriented",
					"Highlight benefits and ROI",
					"Address objections proactively",
				},
			},
		},
		{
			Name:        "technical",
			Description: "Technical mode - Focus on implementation and technical details",
			ContextData: contextengine.Context{
				"role": "Technical Advisor",
				"mode": "Technical",
				"instructions": []any{
					"Provide detailed technical information",
					"Include code examples when relevant",
					"Focus on best practices and architecture",
					"Explain complex concepts clearly",
				},
			},
		},
		{
			Name:        "support",
			Description: "Support mode - Focus on customer service and problem resolution",
			ContextData: contextengine.Context{
				"role": "Support Advisor",
				"mode": "Support",
				"instructions": []any{
					"Be empathetic and patient",
					"Focus on problem resolution",
					"Provide clear step-by-step guidance",
					"Ensure customer satisfaction",
				},
			},
		},
	}
}
