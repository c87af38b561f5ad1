package routedata

import (
	"github.com/dpup/corridor/internal/lib/geo"
)

const (
	// BasePointsPerSegment densifies the anchors into the default routes
	BasePointsPerSegment = 4
	// HDPointsPerSegment densifies the anchors into the "_hd" routes
	HDPointsPerSegment = 10

	hdSuffix = "_hd"
)

// BayArea returns the built-in dataset: four highways between Bay Area cities and
// the city-to-city delivery pairs that run along each. With hd set, a densified
// "_hd" variant of every route is listed after the base routes.
func BayArea(hd bool) (*Dataset, error) {
	highways := []struct {
		id, name, pairSet string
		minPairs          int
		anchors           []geo.Point
	}{
		{"sf_to_sj_us101", "US-101 San Francisco to San Jose", "us101_deliveries", 10, us101Anchors},
		{"sf_to_sj_i280", "I-280 San Francisco to San Jose", "i280_deliveries", 6, i280Anchors},
		{"oakland_to_sj_i880", "I-880 Oakland to San Jose", "i880_deliveries", 10, i880Anchors},
		{"sf_to_sac_i80", "I-80 San Francisco to Sacramento", "i80_deliveries", 12, i80Anchors},
	}

	var routes []Route
	for _, h := range highways {
		routes = append(routes, Route{
			ID:       h.id,
			Name:     h.name,
			Polyline: geo.NewPolyline(geo.Densify(h.anchors, BasePointsPerSegment)),
			PairSet:  h.pairSet,
			MinPairs: h.minPairs,
		})
	}
	if hd {
		for _, h := range highways {
			routes = append(routes, Route{
				ID:       h.id + hdSuffix,
				Name:     h.name + " (HD)",
				Polyline: geo.NewPolyline(geo.Densify(h.anchors, HDPointsPerSegment)),
				PairSet:  h.pairSet,
				MinPairs: h.minPairs,
			})
		}
	}

	sets := []PairSet{
		{ID: "us101_deliveries", Name: "US-101 deliveries", Pairs: us101Deliveries},
		{ID: "i280_deliveries", Name: "I-280 deliveries", Pairs: i280Deliveries},
		{ID: "i80_deliveries", Name: "I-80 deliveries", Pairs: i80Deliveries},
		{ID: "i880_deliveries", Name: "I-880 deliveries", Pairs: i880Deliveries},
	}

	return NewDataset(routes, sets)
}

func pair(originLat, originLng, destLat, destLng float64) geo.Pair {
	return geo.Pair{
		Origin:      geo.Point{Latitude: originLat, Longitude: originLng},
		Destination: geo.Point{Latitude: destLat, Longitude: destLng},
	}
}

var us101Anchors = []geo.Point{
	{Latitude: 37.7749, Longitude: -122.4194}, // San Francisco City Hall
	{Latitude: 37.7577, Longitude: -122.3953}, // Potrero Hill / 101 on-ramp area
	{Latitude: 37.7300, Longitude: -122.3920}, // Bayview / 101 south
	{Latitude: 37.7060, Longitude: -122.4050}, // Brisbane
	{Latitude: 37.6160, Longitude: -122.3920}, // SFO Airport
	{Latitude: 37.5900, Longitude: -122.3460}, // Burlingame / Millbrae
	{Latitude: 37.5500, Longitude: -122.3040}, // San Mateo
	{Latitude: 37.5100, Longitude: -122.2700}, // Belmont / San Carlos
	{Latitude: 37.4852, Longitude: -122.2364}, // Redwood City
	{Latitude: 37.4419, Longitude: -122.1430}, // Palo Alto
	{Latitude: 37.4040, Longitude: -122.0790}, // Mountain View
	{Latitude: 37.3688, Longitude: -122.0363}, // Sunnyvale
	{Latitude: 37.3541, Longitude: -121.9552}, // Santa Clara
	{Latitude: 37.3382, Longitude: -121.8863}, // Downtown San Jose
}

var i280Anchors = []geo.Point{
	{Latitude: 37.7749, Longitude: -122.4194}, // SF City Hall
	{Latitude: 37.7440, Longitude: -122.4310}, // Glen Park
	{Latitude: 37.7083, Longitude: -122.4500}, // Daly City
	{Latitude: 37.6700, Longitude: -122.4600}, // South of Daly City
	{Latitude: 37.6300, Longitude: -122.4400}, // San Bruno
	{Latitude: 37.5900, Longitude: -122.4200}, // Hillsborough
	{Latitude: 37.5400, Longitude: -122.3500}, // Woodside area
	{Latitude: 37.4600, Longitude: -122.2500}, // Portola Valley
	{Latitude: 37.4000, Longitude: -122.2200}, // Los Altos Hills
	{Latitude: 37.3500, Longitude: -122.0900}, // Cupertino / 85 interchange area
	{Latitude: 37.3200, Longitude: -122.0500}, // West San Jose
	{Latitude: 37.3050, Longitude: -121.9200}, // 280/880/17 area
	{Latitude: 37.3382, Longitude: -121.8863}, // Downtown San Jose
}

var i80Anchors = []geo.Point{
	{Latitude: 37.7950, Longitude: -122.3930}, // SF Embarcadero / Bay Bridge on-ramp
	{Latitude: 37.8200, Longitude: -122.3700}, // Yerba Buena / TI vicinity
	{Latitude: 37.8100, Longitude: -122.3000}, // West Oakland
	{Latitude: 37.8300, Longitude: -122.2900}, // Emeryville
	{Latitude: 37.8700, Longitude: -122.3000}, // Berkeley
	{Latitude: 37.9200, Longitude: -122.3300}, // Richmond
	{Latitude: 38.0200, Longitude: -122.2600}, // Rodeo / Crockett
	{Latitude: 38.1100, Longitude: -122.2400}, // Vallejo
	{Latitude: 38.2000, Longitude: -122.1200}, // Fairfield outskirts
	{Latitude: 38.2700, Longitude: -122.0300}, // Fairfield
	{Latitude: 38.3600, Longitude: -121.9900}, // Vacaville
	{Latitude: 38.4700, Longitude: -121.7800}, // Dixon
	{Latitude: 38.5500, Longitude: -121.7400}, // Davis
	{Latitude: 38.5800, Longitude: -121.5300}, // West Sacramento
	{Latitude: 38.5816, Longitude: -121.4944}, // Downtown Sacramento
}

var i880Anchors = []geo.Point{
	{Latitude: 37.8044, Longitude: -122.2712}, // Downtown Oakland
	{Latitude: 37.7900, Longitude: -122.2600}, // Oakland south
	{Latitude: 37.7700, Longitude: -122.2400}, // Oakland / Alameda area
	{Latitude: 37.7300, Longitude: -122.2100}, // San Leandro
	{Latitude: 37.7000, Longitude: -122.1900}, // San Leandro south
	{Latitude: 37.6700, Longitude: -122.1500}, // Hayward north
	{Latitude: 37.6300, Longitude: -122.1200}, // Hayward south / 92
	{Latitude: 37.6000, Longitude: -122.0700}, // Union City
	{Latitude: 37.5500, Longitude: -122.0400}, // Fremont north
	{Latitude: 37.5200, Longitude: -122.0000}, // Fremont central
	{Latitude: 37.4700, Longitude: -121.9600}, // Fremont south / Warm Springs
	{Latitude: 37.4400, Longitude: -121.9200}, // Milpitas
	{Latitude: 37.4000, Longitude: -121.9200}, // North San Jose
	{Latitude: 37.3500, Longitude: -121.9100}, // Central San Jose
	{Latitude: 37.3382, Longitude: -121.8863}, // Downtown San Jose
}

var us101Deliveries = []geo.Pair{
	// SF to Peninsula
	pair(37.7749, -122.4194, 37.6160, -122.3920), // SF City Hall to SFO
	pair(37.7577, -122.3953, 37.5500, -122.3040), // Potrero Hill to San Mateo
	pair(37.7300, -122.3920, 37.4852, -122.2364), // Bayview to Redwood City

	// Peninsula to South Bay
	pair(37.6160, -122.3920, 37.4419, -122.1430), // SFO to Palo Alto
	pair(37.5900, -122.3460, 37.4040, -122.0790), // Burlingame to Mountain View
	pair(37.5500, -122.3040, 37.3688, -122.0363), // San Mateo to Sunnyvale
	pair(37.5100, -122.2700, 37.3541, -121.9552), // Belmont to Santa Clara
	pair(37.4852, -122.2364, 37.3382, -121.8863), // Redwood City to San Jose

	// Short hops within Peninsula
	pair(37.5900, -122.3460, 37.5500, -122.3040), // Burlingame to San Mateo
	pair(37.5500, -122.3040, 37.5100, -122.2700), // San Mateo to Belmont
	pair(37.5100, -122.2700, 37.4852, -122.2364), // Belmont to Redwood City

	// Short hops within South Bay
	pair(37.4419, -122.1430, 37.4040, -122.0790), // Palo Alto to Mountain View
	pair(37.4040, -122.0790, 37.3688, -122.0363), // Mountain View to Sunnyvale
	pair(37.3688, -122.0363, 37.3541, -121.9552), // Sunnyvale to Santa Clara
	pair(37.3541, -121.9552, 37.3382, -121.8863), // Santa Clara to San Jose

	// Long hauls
	pair(37.7749, -122.4194, 37.3382, -121.8863), // SF to San Jose (full route)
	pair(37.6160, -122.3920, 37.3382, -121.8863), // SFO to San Jose
}

var i280Deliveries = []geo.Pair{
	// SF to Peninsula (west side)
	pair(37.7749, -122.4194, 37.7083, -122.4500), // SF City Hall to Daly City
	pair(37.7440, -122.4310, 37.6300, -122.4400), // Glen Park to San Bruno
	pair(37.7083, -122.4500, 37.5900, -122.4200), // Daly City to Hillsborough

	// Peninsula to South Bay (scenic route)
	pair(37.5900, -122.4200, 37.4600, -122.2500), // Hillsborough to Portola Valley
	pair(37.5400, -122.3500, 37.4000, -122.2200), // Woodside to Los Altos Hills
	pair(37.4600, -122.2500, 37.3500, -122.0900), // Portola Valley to Cupertino
	pair(37.4000, -122.2200, 37.3200, -122.0500), // Los Altos Hills to West San Jose
	pair(37.3500, -122.0900, 37.3382, -121.8863), // Cupertino to San Jose

	// Long hauls
	pair(37.7749, -122.4194, 37.3382, -121.8863), // SF to San Jose (full I-280)
	pair(37.5900, -122.4200, 37.3382, -121.8863), // Hillsborough to San Jose
}

var i80Deliveries = []geo.Pair{
	// SF to East Bay
	pair(37.7950, -122.3930, 37.8100, -122.3000), // SF to West Oakland
	pair(37.7950, -122.3930, 37.8300, -122.2900), // SF to Emeryville
	pair(37.8100, -122.3000, 37.8700, -122.3000), // West Oakland to Berkeley
	pair(37.8300, -122.2900, 37.9200, -122.3300), // Emeryville to Richmond

	// East Bay to North Bay
	pair(37.8700, -122.3000, 38.0200, -122.2600), // Berkeley to Rodeo
	pair(37.9200, -122.3300, 38.1100, -122.2400), // Richmond to Vallejo
	pair(38.0200, -122.2600, 38.2000, -122.1200), // Rodeo to Fairfield outskirts

	// North Bay to Inland
	pair(38.1100, -122.2400, 38.2700, -122.0300), // Vallejo to Fairfield
	pair(38.2000, -122.1200, 38.3600, -121.9900), // Fairfield outskirts to Vacaville
	pair(38.2700, -122.0300, 38.4700, -121.7800), // Fairfield to Dixon
	pair(38.3600, -121.9900, 38.5500, -121.7400), // Vacaville to Davis

	// Inland to Sacramento
	pair(38.4700, -121.7800, 38.5500, -121.7400), // Dixon to Davis
	pair(38.5500, -121.7400, 38.5816, -121.4944), // Davis to Sacramento
	pair(38.5800, -121.5300, 38.5816, -121.4944), // West Sacramento to Downtown

	// Long hauls
	pair(37.7950, -122.3930, 38.5816, -121.4944), // SF to Sacramento (full route)
	pair(37.8700, -122.3000, 38.5816, -121.4944), // Berkeley to Sacramento
	pair(38.1100, -122.2400, 38.5816, -121.4944), // Vallejo to Sacramento
}

var i880Deliveries = []geo.Pair{
	// Oakland to South
	pair(37.8044, -122.2712, 37.7300, -122.2100), // Downtown Oakland to San Leandro
	pair(37.7900, -122.2600, 37.7000, -122.1900), // Oakland south to San Leandro south
	pair(37.7700, -122.2400, 37.6700, -122.1500), // Oakland/Alameda to Hayward north

	// San Leandro to Hayward
	pair(37.7300, -122.2100, 37.6300, -122.1200), // San Leandro to Hayward south
	pair(37.7000, -122.1900, 37.6000, -122.0700), // San Leandro south to Union City

	// Hayward to Fremont
	pair(37.6700, -122.1500, 37.5500, -122.0400), // Hayward north to Fremont north
	pair(37.6300, -122.1200, 37.5200, -122.0000), // Hayward south to Fremont central
	pair(37.6000, -122.0700, 37.4700, -121.9600), // Union City to Fremont south

	// Fremont to South Bay
	pair(37.5500, -122.0400, 37.4400, -121.9200), // Fremont north to Milpitas
	pair(37.5200, -122.0000, 37.4000, -121.9200), // Fremont central to North San Jose
	pair(37.4700, -121.9600, 37.3500, -121.9100), // Fremont south to Central San Jose
	pair(37.4400, -121.9200, 37.3382, -121.8863), // Milpitas to Downtown San Jose

	// Long hauls
	pair(37.8044, -122.2712, 37.3382, -121.8863), // Oakland to San Jose (full route)
	pair(37.7300, -122.2100, 37.3382, -121.8863), // San Leandro to San Jose
	pair(37.6300, -122.1200, 37.3382, -121.8863), // Hayward to San Jose
	pair(37.5500, -122.0400, 37.3382, -121.8863), // Fremont to San Jose
}
