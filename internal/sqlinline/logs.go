// Package sqlinline holds every SQL statement the service runs. Each constant
// starts with a marker line the runner extracts for query logging.
package sqlinline

const QInsertLog = `--sql 4b98c31b-b68c-4491-ab38-1f0d87ccf2d5
insert into logs(captured_at, total_playing, total_visits, total_members)
values ($1::timestamptz, $2::int, $3::bigint, $4::int)
returning id;
`

const QInsertGameLog = `--sql 13c0fbf5-b785-4892-9d26-8c7eee1fc60f
insert into game_logs(log_id, universe_id, name, playing, visits, favorites, likes, max_players, created_at, updated_at, is_active, is_playable)
values ($1::bigint, $2::bigint, $3::text, $4::int, $5::bigint, $6::int, $7::int, $8::int, $9::timestamptz, $10::timestamptz, $11::boolean, $12::boolean);
`

const QInsertGroupLog = `--sql 29cc5793-7038-4bc2-adc4-30caf6a104da
insert into group_logs(log_id, group_id, name, member_count, description)
values ($1::bigint, $2::bigint, $3::text, $4::int, nullif($5::text, ''));
`

const QInsertGameImage = `--sql b6431a18-4b0c-4579-a9c3-8a9a071d97b8
insert into game_images(log_id, universe_id, image_url, state)
values ($1::bigint, $2::bigint, $3::text, $4::text);
`

const QInsertRevenueLog = `--sql 65bdfcc7-5e67-406c-826d-18c75374a7af
insert into revenue_logs(log_id, universe_id, daily_revenue, hourly_revenue, cumulative_revenue, currency, recorded_at)
values ($1::bigint, $2::bigint, $3::double precision, $4::double precision, $5::double precision, $6::text, $7::timestamptz);
`

const QSelectLatestLog = `--sql 882cdb43-80ad-49e5-9e61-91c869261fe7
select id, captured_at, total_playing, total_visits, total_members
from logs
order by captured_at desc
limit 1;
`

const QSelectRecentLogs = `--sql 3c21ef69-7267-4636-a870-8b08ffe08347
select id, captured_at, total_playing, total_visits, total_members
from logs
order by captured_at desc
limit $1::int;
`

const QSelectLogsByRange = `--sql ce89c25b-c83d-4516-8013-345ed845b9a6
select id, captured_at, total_playing, total_visits, total_members
from logs
where captured_at between $1::timestamptz and $2::timestamptz
order by captured_at desc;
`

const QSelectGameLogsByLog = `--sql d95bf717-3e4c-444a-90d4-43ba25a77f1c
select universe_id, name, playing, visits, favorites, likes, max_players, created_at, updated_at, is_active, is_playable
from game_logs
where log_id = $1::bigint
order by id;
`

const QSelectGroupLogsByLog = `--sql 131815bc-475b-4435-9e20-9e7de48c5bb9
select group_id, name, member_count, coalesce(description, '')
from group_logs
where log_id = $1::bigint
order by id;
`

const QSelectGameImagesByLog = `--sql 7f94d24a-cc5a-4bd8-98f6-67b21ab0409f
select universe_id, coalesce(image_url, ''), coalesce(state, '')
from game_images
where log_id = $1::bigint
order by id;
`

const QSelectGameSeries = `--sql 8668296c-1847-45a7-9d96-1d6a841b1e9d
select l.captured_at, g.playing, g.visits, g.max_players, g.is_playable
from game_logs g
join logs l on l.id = g.log_id
where g.universe_id = $1::bigint
  and l.captured_at between $2::timestamptz and $3::timestamptz
order by l.captured_at asc;
`

const QSelectGroupSeries = `--sql 9cb7d6f3-622b-43dc-a336-8ca6618a8c8f
select l.captured_at, g.member_count, g.name
from group_logs g
join logs l on l.id = g.log_id
where g.group_id = $1::bigint
  and l.captured_at between $2::timestamptz and $3::timestamptz
order by l.captured_at asc;
`

const QSelectRevenueSeries = `--sql d51c76eb-ea12-4aca-a39c-3ef6c315a634
select recorded_at, daily_revenue, hourly_revenue, cumulative_revenue, currency
from revenue_logs
where universe_id = $1::bigint
  and recorded_at between $2::timestamptz and $3::timestamptz
order by recorded_at asc;
`

const QSelectTodayHourlyAvg = `--sql 76de1dc4-03d6-4894-a983-b611dbecef3c
select coalesce(avg(hourly_revenue), 0), count(*)
from revenue_logs
where universe_id = $1::bigint
  and date(recorded_at) = date($2::timestamptz);
`

const QSelectCumulativeRevenue = `--sql bcc8724d-c302-4c10-b27a-c31f331a7dca
select coalesce(sum(daily_revenue), 0)
from revenue_logs
where universe_id = $1::bigint
  and recorded_at < $2::timestamptz;
`
