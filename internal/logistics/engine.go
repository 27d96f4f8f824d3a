package logistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/greenchainz/greenchainz-api/internal/models"
)

// Engine computes distances, carbon footprints, rate quotes and delivery
// analytics. All methods are pure functions over in-memory shipment data.
type Engine struct{}

// NewEngine creates a new logistics engine instance
func NewEngine() *Engine {
	return &Engine{}
}

// poundsToKg is the lb -> kg conversion factor
const poundsToKg = 0.453592

// Emission factors in kgCO2e per kg per km, by shipping method
var emissionFactors = map[string]float64{
	models.MethodGround:    0.0001,
	models.MethodExpress:   0.00015,
	models.MethodOvernight: 0.0005,
	models.MethodFreight:   0.00008,
	models.MethodOcean:     0.00003,
	models.MethodAir:       0.0008,
}

const defaultEmissionFactor = 0.0001

// Known international route distances in km. Pairs are looked up in both
// orderings; unknown international routes fall back to 5000 km.
var internationalDistances = map[string]float64{
	"US-CN": 11000,
	"US-DE": 7500,
	"US-UK": 6000,
	"US-JP": 9000,
	"US-MX": 2000,
	"US-CA": 1500,
}

const (
	unknownInternationalKm = 5000
	crossStateKm           = 1500
	sameStateKm            = 200
)

// EstimateDistance returns a coarse route distance in km. This is a stand-in
// for a real geocoding/routing service; no real-world accuracy is implied.
func (e *Engine) EstimateDistance(origin, destination models.ShipmentAddress) float64 {
	if origin.Country != destination.Country {
		routeKey := fmt.Sprintf("%s-%s", origin.Country, destination.Country)
		reverseKey := fmt.Sprintf("%s-%s", destination.Country, origin.Country)

		if d, ok := internationalDistances[routeKey]; ok {
			return d
		}
		if d, ok := internationalDistances[reverseKey]; ok {
			return d
		}
		return unknownInternationalKm
	}

	if origin.State == destination.State {
		return sameStateKm
	}
	return crossStateKm
}

// NormalizeWeight converts a weight to kilograms
func (e *Engine) NormalizeWeight(weight float64, unit string) float64 {
	if unit == models.UnitLb {
		return weight * poundsToKg
	}
	return weight
}

// CalculateCarbonFootprint estimates emissions for a shipment from its
// weight, route distance and shipping method
func (e *Engine) CalculateCarbonFootprint(shipment *models.Shipment) models.CarbonFootprint {
	distance := e.EstimateDistance(shipment.Origin, shipment.Destination)
	weightKg := e.NormalizeWeight(shipment.Weight.Total, shipment.Weight.Unit)

	factor, ok := emissionFactors[shipment.ShippingMethod]
	if !ok {
		factor = defaultEmissionFactor
	}

	return models.CarbonFootprint{
		TotalEmissions: round2(weightKg * distance * factor),
		Unit:           "kgCO2e",
		TransportMode:  shipment.ShippingMethod,
		Distance:       distance,
		DistanceUnit:   "km",
		OffsetStatus:   models.OffsetNone,
	}
}

// QuoteRates evaluates the fixed carrier rate formulas and returns quotes
// sorted ascending by rate. The carrier table is a placeholder for live
// carrier API integration.
func (e *Engine) QuoteRates(origin, destination models.ShipmentAddress, weight float64, weightUnit string) []models.ShipmentRate {
	distance := e.EstimateDistance(origin, destination)
	weightKg := e.NormalizeWeight(weight, weightUnit)

	rates := []models.ShipmentRate{
		{
			Carrier:         "EcoShip",
			CarrierCode:     "ECOSP",
			Service:         "Ground - Carbon Neutral",
			ServiceCode:     "GROUND_CN",
			Rate:            round2(weightKg*0.5 + distance*0.02),
			Currency:        "USD",
			EstimatedDays:   int(math.Ceil(distance/500)) + 2,
			Guaranteed:      false,
			CarbonEmissions: weightKg * distance * 0.0001 * 0.5, // 50% offset
		},
		{
			Carrier:         "GreenFreight",
			CarrierCode:     "GRFRT",
			Service:         "Express - Low Carbon",
			ServiceCode:     "EXPRESS_LC",
			Rate:            round2(weightKg*0.8 + distance*0.035),
			Currency:        "USD",
			EstimatedDays:   int(math.Ceil(distance/800)) + 1,
			Guaranteed:      true,
			CarbonEmissions: weightKg * distance * 0.0001 * 0.7,
		},
		{
			Carrier:         "SustainShip",
			CarrierCode:     "SUSSH",
			Service:         "Overnight - Zero Emission",
			ServiceCode:     "OVERNIGHT_ZE",
			Rate:            round2(weightKg*1.5 + distance*0.05),
			Currency:        "USD",
			EstimatedDays:   1,
			Guaranteed:      true,
			CarbonEmissions: 0, // fully electric/offset fleet
		},
		{
			Carrier:         "OceanGreen",
			CarrierCode:     "OCGRN",
			Service:         "Ocean Freight - Eco",
			ServiceCode:     "OCEAN_ECO",
			Rate:            round2(weightKg*0.15 + distance*0.005),
			Currency:        "USD",
			EstimatedDays:   int(math.Ceil(distance/100)) + 14,
			Guaranteed:      false,
			CarbonEmissions: weightKg * distance * 0.00003,
		},
	}

	sort.Slice(rates, func(i, j int) bool {
		return rates[i].Rate < rates[j].Rate
	})
	return rates
}

// RequiredOffsetCredits computes the credits needed for an offset request.
// Full offsets always cover total emissions; partial offsets take the
// caller-supplied credits or default to half the total.
func (e *Engine) RequiredOffsetCredits(footprint models.CarbonFootprint, offsetType string, credits float64) float64 {
	if offsetType == models.OffsetFull {
		return footprint.TotalEmissions
	}
	if credits > 0 {
		return credits
	}
	return footprint.TotalEmissions * 0.5
}

// BuildAnalytics aggregates a delivery report from the shipments already in
// hand; no per-shipment queries are needed
func (e *Engine) BuildAnalytics(shipments []models.Shipment) *models.ShipmentAnalytics {
	var delivered []models.Shipment
	for _, s := range shipments {
		if s.Status == models.StatusDelivered {
			delivered = append(delivered, s)
		}
	}

	onTime := 0
	for _, s := range delivered {
		if deliveredOnTime(s) {
			onTime++
		}
	}

	var deliveryDays []float64
	for _, s := range delivered {
		if s.ActualDelivery != nil {
			deliveryDays = append(deliveryDays, s.ActualDelivery.Sub(s.CreatedAt).Hours()/24)
		}
	}

	var totalEmissions, totalOffset float64
	for _, s := range shipments {
		if s.CarbonFootprint != nil {
			totalEmissions += s.CarbonFootprint.TotalEmissions
			totalOffset += s.CarbonFootprint.OffsetCredits
		}
	}

	costBreakdown := make(map[string]float64)
	for _, s := range shipments {
		method := s.ShippingMethod
		if method == "" {
			method = "other"
		}
		costBreakdown[method] += s.Costs.Total
	}

	return &models.ShipmentAnalytics{
		TotalShipments:       len(shipments),
		DeliveredOnTime:      onTime,
		AverageDeliveryDays:  round1(mean(deliveryDays)),
		TotalCarbonEmissions: round2(totalEmissions),
		TotalCarbonOffset:    round2(totalOffset),
		CostBreakdown:        costBreakdown,
		CarrierPerformance:   e.carrierPerformance(shipments),
	}
}

// carrierPerformance groups shipments by carrier name and computes on-time
// rates and average delivery days among each carrier's delivered shipments
func (e *Engine) carrierPerformance(shipments []models.Shipment) []models.CarrierPerformance {
	type carrierStats struct {
		shipments int
		delivered int
		onTime    int
		days      []float64
	}

	stats := make(map[string]*carrierStats)
	var order []string
	for _, s := range shipments {
		name := s.Carrier.Name
		if name == "" {
			name = "Unknown"
		}
		cs, ok := stats[name]
		if !ok {
			cs = &carrierStats{}
			stats[name] = cs
			order = append(order, name)
		}
		cs.shipments++
		if s.Status == models.StatusDelivered {
			cs.delivered++
			if deliveredOnTime(s) {
				cs.onTime++
			}
			if s.ActualDelivery != nil {
				cs.days = append(cs.days, s.ActualDelivery.Sub(s.CreatedAt).Hours()/24)
			}
		}
	}

	performance := make([]models.CarrierPerformance, 0, len(order))
	for _, name := range order {
		cs := stats[name]
		onTimeRate := 0
		if cs.delivered > 0 {
			onTimeRate = int(math.Round(float64(cs.onTime) / float64(cs.delivered) * 100))
		}
		performance = append(performance, models.CarrierPerformance{
			Carrier:         name,
			Shipments:       cs.shipments,
			OnTimeRate:      onTimeRate,
			AvgDeliveryDays: round1(mean(cs.days)),
		})
	}
	return performance
}

func deliveredOnTime(s models.Shipment) bool {
	if s.ActualDelivery == nil || s.EstimatedDelivery == nil {
		return false
	}
	return !s.ActualDelivery.After(*s.EstimatedDelivery)
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
