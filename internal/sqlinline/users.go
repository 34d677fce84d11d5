package sqlinline

const QInsertUser = `--sql dc6dbeef-f6a1-4a3b-a600-652361d322b0
insert into users (id, username, password_hash, remaining_prompts, submitted_prompts_count)
values (gen_random_uuid(), $1::text, $2::text, $3::int, 0)
returning id;
`

const QSelectUserByID = `--sql 0c346817-e4e7-4429-ad31-98992f703d11
select id, username, password_hash, remaining_prompts, submitted_prompts_count, tab_switches, created_at, updated_at
from users
where id = $1::uuid
limit 1;
`

const QSelectUserByUsername = `--sql e376027b-9213-4dd7-a350-1b41fc7f9b34
select id, username, password_hash, remaining_prompts, submitted_prompts_count, tab_switches, created_at, updated_at
from users
where username = $1::text
limit 1;
`

// Ranks by submitted count; ties go to the user who reached their count
// first (earliest last update).
const QScoreboard = `--sql d06e200f-1a99-483b-9a2e-a657a9701145
select id, username, submitted_prompts_count, updated_at
from users
where submitted_prompts_count > 0
order by submitted_prompts_count desc, updated_at asc
limit $1::int;
`

const QIncrementTabSwitches = `--sql b52ed0e6-f086-4f5e-af2d-dc5b152d9e35
update users
set tab_switches = tab_switches + 1
where id = $1::uuid
returning tab_switches;
`

const QListUsers = `--sql fa95b388-ac40-46a0-b6c4-60ec6ec08dcd
select id, username, password_hash, remaining_prompts, submitted_prompts_count, tab_switches, created_at, updated_at
from users
order by username asc;
`

const QDeleteAllUsers = `--sql 04044b44-84b1-4a16-ac92-21f8fef052c3
delete from users;
`
