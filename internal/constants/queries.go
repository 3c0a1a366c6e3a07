package constants

// LocationColumns selects a locations row with nullable text flattened to "".
const LocationColumns = `id, name,
	COALESCE(city, '') AS city,
	COALESCE(country, '') AS country,
	COALESCE(country_code, '') AS country_code,
	location_type,
	COALESCE(airport_code, '') AS airport_code,
	COALESCE(station_code, '') AS station_code,
	latitude, longitude,
	COALESCE(timezone, '') AS timezone,
	created_at, updated_at`

const (
	GetLocationByID = `SELECT ` + LocationColumns + ` FROM locations WHERE id = $1`

	GetLocationByAirportCode = `SELECT ` + LocationColumns + ` FROM locations WHERE airport_code = $1`

	ListLocations = `SELECT ` + LocationColumns + ` FROM locations ORDER BY id`

	// A NULL city or country never matches the second branch.
	FindDuplicateLocation = `
	SELECT ` + LocationColumns + `
	FROM locations
	WHERE (LOWER(name) = LOWER($1) AND ABS(latitude - $2) < 0.001 AND ABS(longitude - $3) < 0.001)
	   OR (LOWER(name) = LOWER($1)
	       AND LOWER(city) = LOWER(NULLIF($4, ''))
	       AND LOWER(country) = LOWER(NULLIF($5, '')))
	ORDER BY id
	LIMIT 1
	`

	InsertLocation = `
	INSERT INTO locations (name, city, country, country_code, location_type, airport_code, station_code, latitude, longitude, timezone)
	VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''), $5, NULLIF($6, ''), NULLIF($7, ''), $8, $9, NULLIF($10, ''))
	ON CONFLICT (airport_code) WHERE airport_code IS NOT NULL DO NOTHING
	RETURNING id
	`
)

const (
	InsertTrip = `
	INSERT INTO trips (
		user_id, name, trip_type, origin_location_id, destination_location_id,
		departure_date, arrival_date, departure_time, arrival_time,
		flight_number, train_number, airline, operator,
		distance_km, duration_minutes, notes
	) VALUES (
		$1, $2, $3, $4, $5,
		$6::date, $7::date, $8::time, $9::time,
		NULLIF($10, ''), NULLIF($11, ''), NULLIF($12, ''), NULLIF($13, ''),
		$14, $15, NULLIF($16, '')
	)
	RETURNING id, created_at, updated_at
	`

	InsertTripRoute = `
	INSERT INTO trip_routes (trip_id, route_geometry, route_type)
	VALUES ($1, ST_GeomFromText($2, 4326), $3)
	`

	ListTripsByUser = `
	SELECT
		t.id, t.user_id, t.name, t.trip_type,
		t.origin_location_id, t.destination_location_id,
		to_char(t.departure_date, 'YYYY-MM-DD') AS departure_date,
		to_char(t.arrival_date, 'YYYY-MM-DD') AS arrival_date,
		to_char(t.departure_time, 'HH24:MI') AS departure_time,
		to_char(t.arrival_time, 'HH24:MI') AS arrival_time,
		COALESCE(t.flight_number, '') AS flight_number,
		COALESCE(t.train_number, '') AS train_number,
		COALESCE(t.airline, '') AS airline,
		COALESCE(t.operator, '') AS operator,
		t.distance_km, t.duration_minutes,
		COALESCE(t.notes, '') AS notes,
		t.created_at, t.updated_at,
		ol.name AS origin_name,
		COALESCE(ol.city, '') AS origin_city,
		COALESCE(ol.country, '') AS origin_country,
		COALESCE(ol.country_code, '') AS origin_country_code,
		ol.latitude AS origin_lat,
		ol.longitude AS origin_lon,
		dl.name AS destination_name,
		COALESCE(dl.city, '') AS destination_city,
		COALESCE(dl.country, '') AS destination_country,
		COALESCE(dl.country_code, '') AS destination_country_code,
		dl.latitude AS destination_lat,
		dl.longitude AS destination_lon
	FROM trips t
	JOIN locations ol ON t.origin_location_id = ol.id
	JOIN locations dl ON t.destination_location_id = dl.id
	WHERE t.user_id = $1
	ORDER BY t.departure_date DESC NULLS LAST, t.created_at DESC
	`

	DeleteTripForUser = `DELETE FROM trips WHERE id = $1 AND user_id = $2`

	ListVisitedCountries = `
	SELECT DISTINCT l.country_code
	FROM trips t
	JOIN locations l ON l.id IN (t.origin_location_id, t.destination_location_id)
	WHERE t.user_id = $1 AND l.country_code IS NOT NULL AND l.country_code <> ''
	ORDER BY l.country_code
	`
)
